package model

import (
	"database/sql/driver"
	"fmt"
)

// Unit is the closed set of measurement units a product is sold in.
type Unit string

const (
	UnitEach       Unit = "unit"
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "l"
	UnitMilliliter Unit = "ml"
)

var Units = []Unit{UnitEach, UnitKilogram, UnitGram, UnitLiter, UnitMilliliter}

// Packaging is the closed set of package types.
type Packaging string

const (
	PackIndividual Packaging = "individual"
	PackBox        Packaging = "box"
	PackBag        Packaging = "bag"
	PackJar        Packaging = "jar"
	PackBottle     Packaging = "bottle"
	PackCan        Packaging = "can"
	PackDozen      Packaging = "dozen"
	PackSixPack    Packaging = "six_pack"
)

var Packagings = []Packaging{
	PackIndividual, PackBox, PackBag, PackJar, PackBottle, PackCan, PackDozen, PackSixPack,
}

func ParseUnit(s string) (Unit, error) {
	for _, u := range Units {
		if string(u) == s {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

func ParsePackaging(s string) (Packaging, error) {
	for _, p := range Packagings {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown packaging %q", s)
}

func (u Unit) Value() (driver.Value, error) {
	if _, err := ParseUnit(string(u)); err != nil {
		return nil, err
	}
	return string(u), nil
}

func (u *Unit) Scan(src interface{}) error {
	s, err := scanString(src, "Unit")
	if err != nil {
		return err
	}
	parsed, err := ParseUnit(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (p Packaging) Value() (driver.Value, error) {
	if _, err := ParsePackaging(string(p)); err != nil {
		return nil, err
	}
	return string(p), nil
}

func (p *Packaging) Scan(src interface{}) error {
	s, err := scanString(src, "Packaging")
	if err != nil {
		return err
	}
	parsed, err := ParsePackaging(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func scanString(src interface{}, target string) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("cannot scan %T into %s", src, target)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"strconv"
	"strings"
)

var errUnsupportedBool = errors.New("unsupported value encountered")

// parseBool accepts the yes/no spellings users type for --pfunc, in any case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "t", "y", "1":
		return true, nil
	case "no", "false", "f", "n", "0":
		return false, nil
	}
	return false, errUnsupportedBool
}

// boolValue is a pflag.Value that requires an explicit yes/no argument,
// unlike pflag's own bool which treats "-p" alone as true.
type boolValue bool

func (b *boolValue) Set(s string) error {
	v, err := parseBool(s)
	if err != nil {
		return err
	}
	*b = boolValue(v)
	return nil
}

func (b *boolValue) String() string { return strconv.FormatBool(bool(*b)) }

func (b *boolValue) Type() string { return "yes|no" }

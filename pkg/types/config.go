// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

const (
	// DefaultInputPath is the exponent table read when no input is configured.
	DefaultInputPath = "radi_exponent.txt"

	// DefaultOutputPath is the basis file written in plain (S only) mode.
	DefaultOutputPath = "ris.bas"

	// DefaultPFuncOutputPath is the basis file written when P blocks are added.
	DefaultPFuncOutputPath = "ris+p.bas"
)

// ConversionConfig holds everything the converter needs for one run. It is
// built once at startup and passed explicitly.
type ConversionConfig struct {
	// InputPath is the exponent table to read.
	InputPath string `json:"input" yaml:"input"`

	// BaseOutputPath is written when PFunction is false.
	BaseOutputPath string `json:"output" yaml:"output"`

	// PFuncOutputPath is written when PFunction is true.
	PFuncOutputPath string `json:"output_pfunc" yaml:"output_pfunc"`

	// PFunction adds a P block for every element except hydrogen.
	PFunction bool `json:"pfunc" yaml:"pfunc"`
}

// DefaultConversionConfig returns the configuration matching the historical
// fixed file names in the working directory.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		InputPath:       DefaultInputPath,
		BaseOutputPath:  DefaultOutputPath,
		PFuncOutputPath: DefaultPFuncOutputPath,
	}
}

// OutputPath selects the output file from PFunction. There are exactly two
// outcomes; empty paths fall back to the defaults.
func (c ConversionConfig) OutputPath() string {
	if c.PFunction {
		if c.PFuncOutputPath == "" {
			return DefaultPFuncOutputPath
		}
		return c.PFuncOutputPath
	}
	if c.BaseOutputPath == "" {
		return DefaultOutputPath
	}
	return c.BaseOutputPath
}

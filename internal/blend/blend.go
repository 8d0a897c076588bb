// Package blend maps the engine's named blend modes onto GL blend functions
// and equations, degrading gracefully on hardware without blend equations or
// separate blend functions.
//
// Factors and operations are described with gputypes so that the same table
// can be read by non-GL consumers; Apply translates them to GL enums.
package blend

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/blit/driver"
)

// Mode is a named blending policy.
type Mode uint8

// Blend modes.
const (
	Normal Mode = iota
	Premultiplied
	Multiply
	Add
	Subtract
	AddColor
	SubtractColor
	Difference
	Punchout
	Cutout

	numModes
)

var modeNames = [numModes]string{
	"normal", "premultiplied", "multiply", "add", "subtract",
	"add-color", "subtract-color", "difference", "punchout", "cutout",
}

func (m Mode) String() string {
	if m < numModes {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m < numModes }

// Modes returns all modes in declaration order.
func Modes() []Mode {
	out := make([]Mode, numModes)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// Func is the blend configuration a mode resolves to.
type Func struct {
	SrcRGB, DstRGB     gputypes.BlendFactor
	SrcAlpha, DstAlpha gputypes.BlendFactor
	Operation          gputypes.BlendOperation
}

// Separate reports whether the color and alpha factors differ.
func (f Func) Separate() bool {
	return f.SrcRGB != f.SrcAlpha || f.DstRGB != f.DstAlpha
}

type entry struct {
	fn Func
	// needsEquation: nothing is applied without blend equations.
	needsEquation bool
}

func same(src, dst gputypes.BlendFactor, op gputypes.BlendOperation) Func {
	return Func{SrcRGB: src, DstRGB: dst, SrcAlpha: src, DstAlpha: dst, Operation: op}
}

func separate(srcRGB, dstRGB, srcA, dstA gputypes.BlendFactor, op gputypes.BlendOperation) Func {
	return Func{SrcRGB: srcRGB, DstRGB: dstRGB, SrcAlpha: srcA, DstAlpha: dstA, Operation: op}
}

const (
	zero       = gputypes.BlendFactorZero
	one        = gputypes.BlendFactorOne
	srcA       = gputypes.BlendFactorSrcAlpha
	oneMinusSA = gputypes.BlendFactorOneMinusSrcAlpha
	dstColor   = gputypes.BlendFactorDst
	opAdd      = gputypes.BlendOperationAdd
	opSub      = gputypes.BlendOperationSubtract
	opRevSub   = gputypes.BlendOperationReverseSubtract
)

var table = [numModes]entry{
	Normal:        {fn: same(srcA, oneMinusSA, opAdd)},
	Premultiplied: {fn: same(one, oneMinusSA, opAdd)},
	Multiply:      {fn: separate(dstColor, zero, srcA, oneMinusSA, opAdd)},
	Add:           {fn: same(one, one, opAdd)},
	Subtract:      {fn: same(one, one, opSub), needsEquation: true},
	AddColor:      {fn: separate(one, one, srcA, oneMinusSA, opAdd)},
	SubtractColor: {fn: separate(one, one, oneMinusSA, srcA, opSub), needsEquation: true},
	Difference:    {fn: separate(one, one, one, zero, opSub), needsEquation: true},
	Punchout:      {fn: same(srcA, oneMinusSA, opRevSub), needsEquation: true},
	Cutout:        {fn: same(oneMinusSA, srcA, opRevSub), needsEquation: true},
}

// Lookup returns the blend configuration for m.
func Lookup(m Mode) (Func, bool) {
	if !m.Valid() {
		return Func{}, false
	}
	return table[m].fn, true
}

// Apply issues the GL calls for mode m on d, skipping whatever the feature
// set cannot express. It reports whether the full configuration was applied.
func Apply(d driver.Driver, m Mode, features driver.Features) bool {
	if !m.Valid() {
		return false
	}
	e := table[m]
	hasEq := features.Has(driver.FeatureBlendEquations)
	hasSep := features.Has(driver.FeatureBlendFuncSeparate)

	if e.needsEquation && !hasEq {
		return false
	}
	complete := true
	if e.fn.Separate() {
		if hasSep {
			d.BlendFuncSeparate(Factor(e.fn.SrcRGB), Factor(e.fn.DstRGB), Factor(e.fn.SrcAlpha), Factor(e.fn.DstAlpha))
		} else {
			complete = false
			if e.needsEquation {
				return false
			}
		}
	} else {
		d.BlendFunc(Factor(e.fn.SrcRGB), Factor(e.fn.DstRGB))
	}
	if hasEq {
		d.BlendEquation(Operation(e.fn.Operation))
	} else {
		complete = false
	}
	return complete
}

// Factor converts a blend factor to its GL enum.
func Factor(f gputypes.BlendFactor) driver.Enum {
	switch f {
	case gputypes.BlendFactorZero:
		return driver.Zero
	case gputypes.BlendFactorOne:
		return driver.One
	case gputypes.BlendFactorSrc:
		return driver.SrcColor
	case gputypes.BlendFactorOneMinusSrc:
		return driver.OneMinusSrcColor
	case gputypes.BlendFactorSrcAlpha:
		return driver.SrcAlpha
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return driver.OneMinusSrcAlpha
	case gputypes.BlendFactorDst:
		return driver.DstColor
	case gputypes.BlendFactorOneMinusDst:
		return driver.OneMinusDstColor
	case gputypes.BlendFactorDstAlpha:
		return driver.DstAlpha
	case gputypes.BlendFactorOneMinusDstAlpha:
		return driver.OneMinusDstAlpha
	}
	return driver.One
}

// Operation converts a blend operation to its GL equation enum.
func Operation(op gputypes.BlendOperation) driver.Enum {
	switch op {
	case gputypes.BlendOperationSubtract:
		return driver.FuncSubtract
	case gputypes.BlendOperationReverseSubtract:
		return driver.FuncReverseSubtract
	case gputypes.BlendOperationMin:
		return driver.Min
	case gputypes.BlendOperationMax:
		return driver.Max
	}
	return driver.FuncAdd
}

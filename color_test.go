package blit

import (
	"errors"
	"image/color"
	"testing"
)

var _ color.Color = Color{}

func TestColorRGBA(t *testing.T) {
	tests := []struct {
		name       string
		c          Color
		r, g, b, a uint32
	}{
		{"black", Black, 0, 0, 0, 0xffff},
		{"white", White, 0xffff, 0xffff, 0xffff, 0xffff},
		{"transparent", Transparent, 0, 0, 0, 0},
		{"half red", Color{R: 255, A: 128}, 0x8080, 0, 0, 0x8080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			if r != tt.r || g != tt.g || b != tt.b || a != tt.a {
				t.Errorf("RGBA() = (%#x, %#x, %#x, %#x), want (%#x, %#x, %#x, %#x)", r, g, b, a, tt.r, tt.g, tt.b, tt.a)
			}
		})
	}
}

func TestFromColor(t *testing.T) {
	want := Color{R: 10, G: 20, B: 30, A: 255}
	if got := FromColor(color.RGBA{R: 10, G: 20, B: 30, A: 255}); got != want {
		t.Errorf("FromColor = %v, want %v", got, want)
	}
	if got := FromColor(want); got != want {
		t.Errorf("round trip = %v", got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		err  bool
	}{
		{"#fff", White, false},
		{"f00", Red, false},
		{"#00ff0080", Color{G: 255, A: 128}, false},
		{"#0000FF", Blue, false},
		{"#1234", Color{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, false},
		{"#12345", Color{}, true},
		{"#gg0000", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.err {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("err = %v, want ErrInvalidArgument", err)
				}
				if Hex(tt.in) != Black {
					t.Errorf("Hex(%q) = %v, want black", tt.in, Hex(tt.in))
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseHex(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestColorMix(t *testing.T) {
	tests := []struct {
		a, b, want Color
	}{
		{White, Red, Red},
		{Red, Blue, Color{A: 255}},
		{Color{R: 255, G: 128, B: 0, A: 255}, Color{R: 128, G: 255, B: 255, A: 128}, Color{R: 128, G: 128, B: 0, A: 128}},
	}
	for _, tt := range tests {
		if got := tt.a.Mix(tt.b); got != tt.want {
			t.Errorf("%v.Mix(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float32
		want    Color
	}{
		{0, 1, 0.5, Red},
		{120, 1, 0.5, Green},
		{240, 1, 0.5, Blue},
		{-240, 1, 0.5, Green},
		{0, 0, 1, White},
		{0, 0, 0, Black},
	}
	for _, tt := range tests {
		if got := HSL(tt.h, tt.s, tt.l); got != tt.want {
			t.Errorf("HSL(%v, %v, %v) = %v, want %v", tt.h, tt.s, tt.l, got, tt.want)
		}
	}
}

// Package dither quantizes a pixel buffer against a fixed palette, either
// plainly or with one of two dithering families: ordered (matrix-threshold)
// and error diffusion (kernel propagation).
//
// The named threshold matrices and diffusion kernels are immutable
// module-level tables looked up by the settings tag; a tag names exactly one
// family, so the two modes are mutually exclusive.
//
// # Transparency
//
// Pixels with alpha below 128 are forced to alpha 0 in the output and are
// otherwise untouched: they are never matched against the palette and never
// act as sources or sinks for diffused error.
package dither

// Matrix is a square threshold matrix with a normalizing divisor.
// Values are integers in [0, Div).
type Matrix struct {
	Name string
	Size int
	Div  float64
	Cell [][]int
}

// Kernel is an ordered set of error-diffusion offsets. The weight fractions
// (Num/Div) sum to 1, preserving total error mass.
type Kernel struct {
	Name    string
	Div     float64
	Offsets []KernelOffset
}

// KernelOffset names one forward/below neighbor and the numerator of its
// error fraction.
type KernelOffset struct {
	DX, DY int
	Num    int
}

var matrices = map[string]*Matrix{
	"bayer4x4": {
		Name: "bayer4x4", Size: 4, Div: 16,
		Cell: [][]int{
			{0, 8, 2, 10},
			{12, 4, 14, 6},
			{3, 11, 1, 9},
			{15, 7, 13, 5},
		},
	},
	"bayer8x8": {
		Name: "bayer8x8", Size: 8, Div: 64,
		Cell: [][]int{
			{0, 32, 8, 40, 2, 34, 10, 42},
			{48, 16, 56, 24, 50, 18, 58, 26},
			{12, 44, 4, 36, 14, 46, 6, 38},
			{60, 28, 52, 20, 62, 30, 54, 22},
			{3, 35, 11, 43, 1, 33, 9, 41},
			{51, 19, 59, 27, 49, 17, 57, 25},
			{15, 47, 7, 39, 13, 45, 5, 37},
			{63, 31, 55, 23, 61, 29, 53, 21},
		},
	},
	"halftone": {
		Name: "halftone", Size: 4, Div: 16,
		Cell: [][]int{
			{12, 5, 6, 13},
			{4, 0, 1, 7},
			{11, 3, 2, 8},
			{15, 10, 9, 14},
		},
	},
	"diagonal": {
		Name: "diagonal", Size: 4, Div: 4,
		Cell: [][]int{
			{0, 1, 2, 3},
			{3, 0, 1, 2},
			{2, 3, 0, 1},
			{1, 2, 3, 0},
		},
	},
	"crosshatch": {
		Name: "crosshatch", Size: 4, Div: 8,
		Cell: [][]int{
			{7, 3, 5, 1},
			{3, 6, 1, 4},
			{5, 1, 7, 2},
			{1, 4, 2, 6},
		},
	},
	"grid": {
		Name: "grid", Size: 4, Div: 5,
		Cell: [][]int{
			{4, 2, 4, 2},
			{2, 0, 2, 0},
			{4, 2, 4, 2},
			{2, 0, 2, 0},
		},
	},
}

var kernels = map[string]*Kernel{
	"floyd-steinberg": {
		Name: "floyd-steinberg", Div: 16,
		Offsets: []KernelOffset{
			{1, 0, 7},
			{-1, 1, 3},
			{0, 1, 5},
			{1, 1, 1},
		},
	},
	"burkes": {
		Name: "burkes", Div: 32,
		Offsets: []KernelOffset{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
		},
	},
	"stucki": {
		Name: "stucki", Div: 42,
		Offsets: []KernelOffset{
			{1, 0, 8}, {2, 0, 4},
			{-2, 1, 2}, {-1, 1, 4}, {0, 1, 8}, {1, 1, 4}, {2, 1, 2},
			{-2, 2, 1}, {-1, 2, 2}, {0, 2, 4}, {1, 2, 2}, {2, 2, 1},
		},
	},
	"sierra2": {
		Name: "sierra2", Div: 16,
		Offsets: []KernelOffset{
			{1, 0, 4}, {2, 0, 3},
			{-2, 1, 1}, {-1, 1, 2}, {0, 1, 3}, {1, 1, 2}, {2, 1, 1},
		},
	},
	"sierra-lite": {
		Name: "sierra-lite", Div: 4,
		Offsets: []KernelOffset{
			{1, 0, 2},
			{-1, 1, 1}, {0, 1, 1},
		},
	},
}

// MatrixByName returns the named ordered-dither matrix, or nil.
func MatrixByName(name string) *Matrix {
	return matrices[name]
}

// KernelByName returns the named error-diffusion kernel, or nil.
func KernelByName(name string) *Kernel {
	return kernels[name]
}

// MatrixNames lists the available ordered-dither matrix tags.
func MatrixNames() []string {
	return []string{"bayer4x4", "bayer8x8", "halftone", "diagonal", "crosshatch", "grid"}
}

// KernelNames lists the available error-diffusion kernel tags.
func KernelNames() []string {
	return []string{"floyd-steinberg", "burkes", "stucki", "sierra2", "sierra-lite"}
}

package catalog

import "github.com/litescript/ls-platesolver/internal/astro"

// builtinEntry is a compact row of the built-in table.
type builtinEntry struct {
	typ    string
	names  []string
	raDeg  float64 // J2000
	decDeg float64 // J2000
	mag    float64
}

// Builtin returns a small catalog of bright stars and showpiece deep-sky
// objects, sorted brightest first. It is used when no catalog file is
// configured.
func Builtin() *Catalog {
	objs := make([]Object, 0, len(builtinEntries))
	for _, e := range builtinEntries {
		objs = append(objs, Object{
			Type:  e.typ,
			Cel:   astro.CelestialCoordinate{RA: e.raDeg, Dec: e.decDeg},
			Mag:   e.mag,
			Names: e.names,
		})
	}
	SortObjects(objs)
	return New(objs)
}

// Coordinates from the Yale Bright Star Catalog and the SAC deep-sky list.
var builtinEntries = []builtinEntry{
	// Magnitude < 1
	{TypeStar, []string{"Sirius", "α CMa"}, 101.287, -16.716, -1.46},
	{TypeStar, []string{"Canopus", "α Car"}, 95.988, -52.696, -0.74},
	{TypeStar, []string{"Arcturus", "α Boo"}, 213.915, 19.182, -0.05},
	{TypeStar, []string{"Vega", "α Lyr"}, 279.235, 38.784, 0.03},
	{TypeStar, []string{"Capella", "α Aur"}, 79.172, 45.998, 0.08},
	{TypeStar, []string{"Rigel", "β Ori"}, 78.634, -8.202, 0.13},
	{TypeStar, []string{"Procyon", "α CMi"}, 114.826, 5.225, 0.34},
	{TypeStar, []string{"Achernar", "α Eri"}, 24.429, -57.237, 0.46},
	{TypeStar, []string{"Betelgeuse", "α Ori"}, 88.793, 7.407, 0.50},
	{TypeStar, []string{"Hadar", "β Cen"}, 210.956, -60.373, 0.61},
	{TypeStar, []string{"Altair", "α Aql"}, 297.696, 8.868, 0.76},
	{TypeStar, []string{"Acrux", "α Cru"}, 186.650, -63.099, 0.76},
	{TypeStar, []string{"Aldebaran", "α Tau"}, 68.980, 16.509, 0.85},
	{TypeStar, []string{"Antares", "α Sco"}, 247.352, -26.432, 0.96},
	{TypeStar, []string{"Spica", "α Vir"}, 201.298, -11.161, 0.97},

	// Magnitude 1-2
	{TypeStar, []string{"Pollux", "β Gem"}, 116.329, 28.026, 1.14},
	{TypeStar, []string{"Fomalhaut", "α PsA"}, 344.413, -29.622, 1.16},
	{TypeStar, []string{"Deneb", "α Cyg"}, 310.358, 45.280, 1.25},
	{TypeStar, []string{"Mimosa", "β Cru"}, 191.930, -59.689, 1.25},
	{TypeStar, []string{"Regulus", "α Leo"}, 152.093, 11.967, 1.35},
	{TypeStar, []string{"Adhara", "ε CMa"}, 104.656, -28.972, 1.50},
	{TypeStar, []string{"Castor", "α Gem"}, 113.650, 31.889, 1.58},
	{TypeStar, []string{"Gacrux", "γ Cru"}, 187.791, -57.113, 1.63},
	{TypeStar, []string{"Shaula", "λ Sco"}, 263.402, -37.104, 1.63},
	{TypeStar, []string{"Bellatrix", "γ Ori"}, 81.283, 6.350, 1.64},
	{TypeStar, []string{"Elnath", "β Tau"}, 81.573, 28.608, 1.65},
	{TypeStar, []string{"Miaplacidus", "β Car"}, 138.300, -69.717, 1.68},
	{TypeStar, []string{"Alnilam", "ε Ori"}, 84.053, -1.202, 1.69},
	{TypeStar, []string{"Alnair", "α Gru"}, 332.058, -46.961, 1.74},
	{TypeStar, []string{"Alnitak", "ζ Ori"}, 85.190, -1.943, 1.77},
	{TypeStar, []string{"Alioth", "ε UMa"}, 193.507, 55.960, 1.77},
	{TypeStar, []string{"Dubhe", "α UMa"}, 165.932, 61.751, 1.79},
	{TypeStar, []string{"Mirfak", "α Per"}, 51.081, 49.861, 1.79},
	{TypeStar, []string{"Wezen", "δ CMa"}, 107.098, -26.393, 1.84},
	{TypeStar, []string{"Kaus Australis", "ε Sgr"}, 276.043, -34.384, 1.85},
	{TypeStar, []string{"Alkaid", "η UMa"}, 206.885, 49.313, 1.86},
	{TypeStar, []string{"Menkalinan", "β Aur"}, 89.882, 44.948, 1.90},
	{TypeStar, []string{"Alhena", "γ Gem"}, 99.428, 16.399, 1.93},
	{TypeStar, []string{"Mirzam", "β CMa"}, 95.675, -17.956, 1.98},
	{TypeStar, []string{"Polaris", "α UMi"}, 37.954, 89.264, 2.02},
	{TypeStar, []string{"Alphard", "α Hya"}, 141.897, -8.659, 2.00},

	// Magnitude 2-3
	{TypeStar, []string{"Hamal", "α Ari"}, 31.793, 23.463, 2.00},
	{TypeStar, []string{"Nunki", "σ Sgr"}, 283.816, -26.297, 2.02},
	{TypeStar, []string{"Mizar", "ζ UMa"}, 200.981, 54.925, 2.04},
	{TypeStar, []string{"Alpheratz", "α And"}, 2.097, 29.091, 2.06},
	{TypeStar, []string{"Mirach", "β And"}, 17.433, 35.621, 2.05},
	{TypeStar, []string{"Saiph", "κ Ori"}, 86.939, -9.670, 2.09},
	{TypeStar, []string{"Kochab", "β UMi"}, 222.676, 74.156, 2.08},
	{TypeStar, []string{"Rasalhague", "α Oph"}, 263.734, 12.560, 2.08},
	{TypeStar, []string{"Algol", "β Per"}, 47.042, 40.957, 2.12},
	{TypeStar, []string{"Denebola", "β Leo"}, 177.265, 14.572, 2.13},
	{TypeStar, []string{"Alphecca", "α CrB"}, 233.672, 26.715, 2.23},
	{TypeStar, []string{"Mintaka", "δ Ori"}, 83.002, -0.299, 2.23},
	{TypeStar, []string{"Sadr", "γ Cyg"}, 305.557, 40.257, 2.23},
	{TypeStar, []string{"Schedar", "α Cas"}, 10.127, 56.537, 2.23},
	{TypeStar, []string{"Caph", "β Cas"}, 2.295, 59.150, 2.27},
	{TypeStar, []string{"Merak", "β UMa"}, 165.460, 56.382, 2.37},
	{TypeStar, []string{"Enif", "ε Peg"}, 326.046, 9.875, 2.39},
	{TypeStar, []string{"Phecda", "γ UMa"}, 178.458, 53.695, 2.44},
	{TypeStar, []string{"Markab", "α Peg"}, 346.190, 15.205, 2.49},
	{TypeStar, []string{"Hatysa", "ι Ori"}, 83.858, -5.910, 2.77},
	{TypeStar, []string{"Alcyone", "η Tau"}, 56.871, 24.105, 2.87},
	{TypeStar, []string{"Albireo", "β Cyg"}, 292.680, 27.960, 3.18},

	// Deep-sky objects
	{"OC", []string{"M45", "Pleiades"}, 56.750, 24.117, 1.6},
	{"Gxy", []string{"M31", "NGC224", "Andromeda Galaxy"}, 10.685, 41.269, 3.4},
	{"OC", []string{"M44", "NGC2632", "Beehive"}, 130.100, 19.670, 3.7},
	{"Neb", []string{"M42", "NGC1976", "Orion Nebula"}, 83.822, -5.391, 4.0},
	{"OC", []string{"NGC1981"}, 83.790, -4.430, 4.2},
	{"Gxy", []string{"M33", "NGC598", "Triangulum Galaxy"}, 23.462, 30.660, 5.7},
	{"GC", []string{"M13", "NGC6205", "Hercules Cluster"}, 250.423, 36.461, 5.8},
	{"Neb", []string{"M8", "NGC6523", "Lagoon Nebula"}, 270.904, -24.387, 6.0},
	{"Gxy", []string{"M81", "NGC3031", "Bode's Galaxy"}, 148.888, 69.065, 6.9},
	{"Neb", []string{"NGC1977", "Running Man Nebula"}, 83.850, -4.830, 7.0},
	{"PN", []string{"M27", "NGC6853", "Dumbbell Nebula"}, 299.902, 22.721, 7.4},
	{"Gxy", []string{"M104", "NGC4594", "Sombrero Galaxy"}, 189.998, -11.623, 8.0},
	{"Neb", []string{"M78", "NGC2068"}, 86.690, 0.079, 8.3},
	{"SNR", []string{"M1", "NGC1952", "Crab Nebula"}, 83.633, 22.015, 8.4},
	{"Gxy", []string{"M51", "NGC5194", "Whirlpool Galaxy"}, 202.470, 47.195, 8.4},
	{"PN", []string{"M57", "NGC6720", "Ring Nebula"}, 283.396, 33.029, 8.8},
	{"Neb", []string{"M43", "NGC1982", "De Mairan's Nebula"}, 83.879, -5.267, 9.0},
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"plain words", "characterizing biomarker set of proximal tubule cell", "characterizing_biomarker_set_of_proximal_tubule_cell"},
		{"upper case", "CD4 T Cell", "cd4_t_cell"},
		{"dash becomes underscore", "T-cell", "t_cell"},
		{"punctuation stripped", "B cell (naive), IgD+!", "b_cell_naive_igd"},
		{"underscore is punctuation", "alpha_beta cell", "alphabeta_cell"},
		{"whitespace runs collapse", "  smooth \t muscle\ncell  ", "smooth_muscle_cell"},
		{"unicode lowered", "Épithélium", "épithélium"},
		{"empty", "", ""},
		{"punctuation only", "?!.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.label))
		})
	}
}

func TestMakeEquivalentLabels(t *testing.T) {
	a := Make("Characterizing biomarker set of T-cell")
	b := Make("CHARACTERIZING BIOMARKER SET OF T-cell!!")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Make("characterizing biomarker set of B-cell"))
}

func TestMakeIsStable(t *testing.T) {
	label := "Characterizing biomarker set of Podocyte"
	first := Make(label)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Make(label))
	}
}

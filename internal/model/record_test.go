package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_ValueAndScan(t *testing.T) {
	v, err := StringList{"Ana Souza", "Bo Li"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Ana Souza","Bo Li"]`, v)

	v, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["x","y"]`)))
	assert.Equal(t, StringList{"x", "y"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)
	assert.NotNil(t, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("not json"))
}

func TestProduct_Matches(t *testing.T) {
	year := 2021
	p := &Product{
		Title:           "Cotidiano e Escola",
		Abstract:        "Um estudo sobre rotinas",
		ProductType:     "Articles",
		Authors:         StringList{"Marco Santos", "Ana Lima"},
		Keywords:        StringList{"educação", "rotina"},
		PublicationYear: &year,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"type match", Filter{Type: "Articles"}, true},
		{"type mismatch", Filter{Type: "Books"}, false},
		{"search title case-insensitive", Filter{Search: "ESCOLA"}, true},
		{"search abstract", Filter{Search: "rotinas"}, true},
		{"search keyword", Filter{Search: "educa"}, true},
		{"search miss", Filter{Search: "física"}, false},
		{"author substring", Filter{Author: "santos"}, true},
		{"author miss", Filter{Author: "Pereira"}, false},
		{"year match", Filter{Year: 2021}, true},
		{"year mismatch", Filter{Year: 2020}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Matches(tt.filter))
		})
	}
}

func TestSlotsPerKind(t *testing.T) {
	assert.NotNil(t, (&Product{}).Slot(RoleDocument))
	assert.NotNil(t, (&Product{}).Slot(RoleAudio))
	assert.Nil(t, (&Product{}).Slot(RoleImage))

	assert.NotNil(t, (&News{}).Slot(RoleImage))
	assert.Nil(t, (&News{}).Slot(RoleMaterial))

	assert.NotNil(t, (&Ensino{}).Slot(RoleMaterial))
	assert.NotNil(t, (&Extensao{}).Slot(RoleImage))
	assert.Nil(t, (&Extensao{}).Slot(RoleDocument))

	assert.NotNil(t, (&Product{}).Count(CounterViews))
	assert.Nil(t, (&News{}).Count(CounterViews))
}

func TestProduct_CloneIsDeep(t *testing.T) {
	doi := "10.1000/x"
	p := &Product{Authors: StringList{"A"}, DOI: &doi}
	c := p.Clone()
	c.Authors[0] = "B"
	*c.DOI = "changed"

	assert.Equal(t, "A", p.Authors[0])
	assert.Equal(t, "10.1000/x", *p.DOI)
}

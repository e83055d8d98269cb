package drafts

import (
	"testing"

	"github.com/mailcraft/mailcraft/internal/document"
	"github.com/stretchr/testify/require"
)

func intp(i int) *int { return &i }

func TestOpApply(t *testing.T) {
	d := document.New()

	d, err := Op{Op: OpSetName, Value: "Weekly"}.Apply(d)
	require.NoError(t, err)
	require.Equal(t, "Weekly", d.Name)

	d, err = Op{Op: OpSetContent, Section: "footer", Value: "Unsubscribe"}.Apply(d)
	require.NoError(t, err)
	require.Equal(t, "Unsubscribe", d.ContentOf(document.SectionFooter))

	d, err = Op{Op: OpSetStyle, Section: "title", Property: "color", Value: "#ff0000"}.Apply(d)
	require.NoError(t, err)
	require.Equal(t, "#ff0000", d.Style.Get(document.SectionTitle, document.PropertyColor))

	d, err = Op{Op: OpSetBackground, Value: "#f0f0f0"}.Apply(d)
	require.NoError(t, err)
	require.Equal(t, "#f0f0f0", d.Style.BackgroundColor())

	d, err = Op{Op: OpMoveSection, From: intp(0), To: intp(2)}.Apply(d)
	require.NoError(t, err)
	require.Equal(t, document.Order{document.SectionImage, document.SectionContent, document.SectionTitle, document.SectionFooter}, d.Order)

	d, err = Op{Op: OpSetLayout, Value: "promo.html"}.Apply(d)
	require.NoError(t, err)
	require.Equal(t, "promo.html", d.LayoutID)
}

func TestOpApply_Rejections(t *testing.T) {
	d := document.New()
	cases := []struct {
		name string
		op   Op
		want error
	}{
		{"unknown op", Op{Op: "deleteEverything"}, ErrUnknownOp},
		{"unknown section", Op{Op: OpSetContent, Section: "sidebar"}, document.ErrUnknownSection},
		{"unknown property", Op{Op: OpSetStyle, Section: "title", Property: "weight"}, document.ErrUnknownProperty},
		{"missing indices", Op{Op: OpMoveSection, From: intp(1)}, document.ErrIndexOutOfRange},
		{"out of range", Op{Op: OpMoveSection, From: intp(0), To: intp(4)}, document.ErrIndexOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.op.Apply(d)
			require.ErrorIs(t, err, tc.want)
			require.True(t, document.IsValidation(err))
			require.Equal(t, d.Order, got.Order)
		})
	}
}

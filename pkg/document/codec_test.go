package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	doc := New(
		NewElement(DefaultType, NewText("A line of text in a paragraph.", Bold)),
		NewElement(CodeType, NewText("print(1)"), NewText("", Italic, Strikethrough)),
	)
	data, err := Encode(doc)
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`[
			{"children": [{"text": "A line of text in a paragraph.", "bold": true}]},
			{"type": "code", "children": [{"text": "print(1)"}, {"text": "", "italic": true, "strikethrough": true}]}
		]`,
		string(data),
	)
}

func TestEncode_Invalid(t *testing.T) {
	_, err := Encode(New())
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(`[
		{"type": null, "children": [{"text": "plain"}, {"text": "b", "bold": true, "italic": false}]},
		{"type": "heading2", "children": [{"type": "paragraph", "children": [{"text": ""}]}]}
	]`))
	require.NoError(t, err)

	expected := New(
		NewElement(DefaultType, NewText("plain"), NewText("b", Bold)),
		NewElement(Heading2Type, NewElement(ParagraphType, NewText(""))),
	)
	assert.True(t, expected.Equal(doc))
}

func TestDecode_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{name: "NotJSON", data: `{`},
		{name: "Empty", data: `[]`},
		{name: "TopLevelText", data: `[{"text": "x"}]`},
		{name: "NoChildren", data: `[{"type": "paragraph", "children": []}]`},
		{name: "Neither", data: `[{"type": "paragraph"}]`},
		{name: "Both", data: `[{"text": "x", "children": [{"text": "y"}]}]`},
		{name: "UnknownType", data: `[{"type": "table", "children": [{"text": "y"}]}]`},
		{name: "NullNode", data: `[null]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	docs := []*Document{
		Default(),
		FromText("line 1\nline 2\n"),
		testDocument(),
		New(
			NewElement(DefaultType, NewText("")),
			NewElement(Heading3Type, NewText("a", Bold, Italic, Strikethrough), NewText("b", Italic)),
			NewElement(DefaultType, NewElement(CodeType, NewText("x = 1\n")), NewElement(ParagraphType, NewText("ü"))),
		),
	}

	for _, doc := range docs {
		data, err := Encode(doc)
		require.NoError(t, err)
		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.True(t, doc.Equal(decoded), "round trip changed %s", data)
	}
}

package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "level,section_order,box_number,box_title,task_order,task_text\n"

func TestParseGroupsInFirstAppearanceOrder(t *testing.T) {
	input := header +
		"Advanced,2,3,Deep,1,Read chapter 5\n" +
		"Basics,1,2,Drill,1,Exercise A\n" +
		"Basics,1,1,Intro,1,Read chapter 1\n" +
		"Advanced,2,3,Ignored title,2,Summarise\n" +
		"Basics,1,2,Drill,2,Exercise B\n"

	groups, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	want := []*SectionGroup{
		{Level: "Advanced", Order: 2, Boxes: []*BoxGroup{
			{Number: 3, Title: "Deep", Tasks: []TaskRow{{1, "Read chapter 5"}, {2, "Summarise"}}},
		}},
		{Level: "Basics", Order: 1, Boxes: []*BoxGroup{
			{Number: 2, Title: "Drill", Tasks: []TaskRow{{1, "Exercise A"}, {2, "Exercise B"}}},
			{Number: 1, Title: "Intro", Tasks: []TaskRow{{1, "Read chapter 1"}}},
		}},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSameLevelDifferentOrderIsNewSection(t *testing.T) {
	input := header +
		"Basics,1,1,Intro,1,One\n" +
		"Basics,2,1,Intro,1,Two\n"

	groups, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].Order)
	assert.Equal(t, 2, groups[1].Order)
}

func TestParseSkipsBlankRows(t *testing.T) {
	input := header +
		"  ,1,1,Intro,1,No level\n" +
		"Basics,1,1,Intro,2,   \n" +
		"Basics,1,1,Intro,3,Kept\n"

	groups, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].TaskCount())
	assert.Equal(t, "Kept", groups[0].Boxes[0].Tasks[0].Text)
}

func TestParseTrimsCells(t *testing.T) {
	input := header + "  Basics , 1 , 2 ,  Intro ,3,  Read  \n"

	groups, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Basics", g.Level)
	assert.Equal(t, 1, g.Order)
	assert.Equal(t, 2, g.Boxes[0].Number)
	assert.Equal(t, "Intro", g.Boxes[0].Title)
	assert.Equal(t, TaskRow{Order: 3, Text: "Read"}, g.Boxes[0].Tasks[0])
}

func TestParseMalformedNumberAbortsEverything(t *testing.T) {
	input := header +
		"Basics,1,1,Intro,1,Fine\n" +
		"Basics,1,x,Intro,2,Broken\n"

	groups, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, groups)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, ColBoxNumber, rowErr.Column)
	assert.Equal(t, "x", rowErr.Value)
	assert.Contains(t, err.Error(), "box_number")
}

func TestParseMalformedNumberOnSkippableRowStillFails(t *testing.T) {
	input := header + ",abc,1,Intro,1,\n"

	_, err := Parse(strings.NewReader(input))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, ColSectionOrder, rowErr.Column)
}

func TestParseMissingNumericColumnsDefaultToOne(t *testing.T) {
	input := "level,task_text\nBasics,Read\n"

	groups, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].Order)
	assert.Equal(t, 1, groups[0].Boxes[0].Number)
	assert.Equal(t, "", groups[0].Boxes[0].Title)
	assert.Equal(t, 1, groups[0].Boxes[0].Tasks[0].Order)
}

func TestParseHandlesBOMAndPaddedHeader(t *testing.T) {
	input := "\xEF\xBB\xBFlevel, section_order ,box_number,box_title,task_order,task_text\r\n" +
		"Basics,4,1,Intro,1,Read\r\n"

	groups, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Basics", groups[0].Level)
	assert.Equal(t, 4, groups[0].Order)
}

func TestParseEmptyInput(t *testing.T) {
	groups, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, groups)

	groups, err = Parse(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestParseQuotedText(t *testing.T) {
	input := header + `Basics,1,1,"Intro, part 1",1,"Say ""hola"""` + "\n"

	groups, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Intro, part 1", groups[0].Boxes[0].Title)
	assert.Equal(t, `Say "hola"`, groups[0].Boxes[0].Tasks[0].Text)
}

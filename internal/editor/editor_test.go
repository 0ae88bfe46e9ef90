package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusadmin/campusctl/internal/model"
)

func TestOpenAndCloseDialog(t *testing.T) {
	c := New()
	assert.Empty(t, c.ActiveDialog())

	c.Open("college")
	assert.Equal(t, "college", c.ActiveDialog())

	c.Close()
	assert.Empty(t, c.ActiveDialog())
}

func TestCloseClearsEverythingAtomically(t *testing.T) {
	c := New()

	c.Open("student")
	c.SetEditMode(true)
	c.SetCurrentStudent(&model.Student{StudentID: "2021-00001"})
	c.SetCurrentCollege(&model.College{CollegeCode: "COE"})
	c.SetCurrentProgram(&model.Program{ProgramCode: "BSCS"})

	c.Close()

	assert.Empty(t, c.ActiveDialog())
	assert.False(t, c.EditMode())
	assert.Nil(t, c.CurrentStudent(), "a closed dialog must not leak its record")
	assert.Nil(t, c.CurrentCollege())
	assert.Nil(t, c.CurrentProgram())
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New()

	c.Open("program")
	c.SetCurrentProgram(&model.Program{ProgramCode: "BSIT"})

	c.Close()
	c.Close()

	assert.Empty(t, c.ActiveDialog())
	assert.Nil(t, c.CurrentProgram())
}

func TestReopenAfterCloseStartsClean(t *testing.T) {
	c := New()

	c.Open("college")
	c.SetEditMode(true)
	c.SetCurrentCollege(&model.College{CollegeCode: "CON", CollegeName: "College of Nursing"})
	c.Close()

	c.Open("college")
	require.Equal(t, "college", c.ActiveDialog())
	assert.False(t, c.EditMode(), "a fresh dialog starts in create mode")
	assert.Nil(t, c.CurrentCollege())
}

func TestSettersReplaceCurrentRecord(t *testing.T) {
	c := New()

	first := &model.Student{StudentID: "2021-00001", FirstName: "Ana"}
	second := &model.Student{StudentID: "2021-00002", FirstName: "Ben"}

	c.SetCurrentStudent(first)
	c.SetCurrentStudent(second)

	got := c.CurrentStudent()
	require.NotNil(t, got)
	assert.Equal(t, "2021-00002", got.StudentID)
}

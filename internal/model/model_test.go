package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsCompletePayloads(t *testing.T) {
	assert.NoError(t, Validate(CollegePayload{CollegeCode: "COE", CollegeName: "College of Engineering"}))
	assert.NoError(t, Validate(ProgramPayload{ProgramCode: "BSCS", ProgramName: "BS Computer Science", CollegeCode: "COE"}))
	assert.NoError(t, Validate(StudentPayload{
		StudentID:   "2021-00001",
		FirstName:   "Ana",
		LastName:    "Reyes",
		YearLevel:   "2",
		Gender:      "Female",
		ProgramCode: "BSCS",
	}))
}

func TestValidateNamesFirstMissingField(t *testing.T) {
	err := Validate(CollegePayload{CollegeName: "College of Engineering"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "CollegeCode is required", valErr.Error())
}

func TestValidateStudentPayload(t *testing.T) {
	err := Validate(StudentPayload{StudentID: "2021-00001"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "is required")
}

func TestStudentYearLevelDecodesBothEncodings(t *testing.T) {
	var fromString Student
	require.NoError(t, json.Unmarshal(
		[]byte(`{"student_id":"2021-00001","year_level":"3"}`), &fromString))
	assert.Equal(t, YearLevel("3"), fromString.YearLevel)

	var fromNumber Student
	require.NoError(t, json.Unmarshal(
		[]byte(`{"student_id":"2021-00001","year_level":3}`), &fromNumber))
	assert.Equal(t, YearLevel("3"), fromNumber.YearLevel)

	var bad Student
	assert.Error(t, json.Unmarshal(
		[]byte(`{"student_id":"2021-00001","year_level":[3]}`), &bad))
}

func TestEntityKeys(t *testing.T) {
	assert.Equal(t, "COE", College{CollegeCode: "COE"}.Key())
	assert.Equal(t, "BSCS", Program{ProgramCode: "BSCS"}.Key())
	assert.Equal(t, "2021-00001", Student{StudentID: "2021-00001"}.Key())
}

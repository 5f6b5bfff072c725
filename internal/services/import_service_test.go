package services

import (
	"context"
	"strings"
	"testing"

	"github.com/civicprep/quiz-engine/internal/events"
	"github.com/civicprep/quiz-engine/internal/repositories"
	"github.com/civicprep/quiz-engine/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportFixture() (ImportService, *repositories.MemoryQuestionSource, *events.MockEventPublisher) {
	target := repositories.NewMemoryQuestionSource()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewImportService(target, nil, publisher, testLogger(), validator.New())
	return svc, target, publisher
}

const sampleCSV = `topic_id,question_number,kind,prompt,option_a,option_b,option_c,option_d,correct_answer,tags
civics,1,multiple_choice,How many branches does the government have?,Two,Three,Four,Five,Three,basic
civics,2,short_answer,Who is the commander in chief of the military?,,,,,the president,
civics,3,true_false,The Constitution can be amended.,,,,,true,
`

func TestImportCSV(t *testing.T) {
	svc, target, publisher := newImportFixture()

	result, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, []string{"civics"}, result.TopicIDs)

	questions, err := target.QuestionsByTopic(context.Background(), "civics")
	require.NoError(t, err)
	assert.Len(t, questions, 3)

	mc := questions[0]
	assert.Len(t, mc.Options, 4)
	assert.Equal(t, "Three", mc.CorrectAnswer)
	assert.Equal(t, []string{"basic"}, mc.Tags)
	assert.NotEmpty(t, mc.ID)

	require.Len(t, publisher.GetPublishedEvents(), 1)
	assert.Equal(t, events.EventQuestionsImported, publisher.GetPublishedEvents()[0].Type)
}

func TestImportCSV_BadRowsSkipped(t *testing.T) {
	svc, target, _ := newImportFixture()

	csv := `topic_id,kind,prompt,correct_answer
civics,essay,Describe federalism.,anything
civics,short_answer,Who vetoes bills?,the president
civics,true_false,The flag has 13 stripes.,maybe
`
	result, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "kind", result.Errors[0].Column)
	assert.Equal(t, 4, result.Errors[1].Row)

	questions, err := target.QuestionsByTopic(context.Background(), "civics")
	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestImportCSV_MissingRequiredColumn(t *testing.T) {
	svc, _, _ := newImportFixture()

	csv := "kind,prompt,correct_answer\nshort_answer,Who?,someone\n"
	_, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestImportCSV_MatchingAndOrdering(t *testing.T) {
	svc, target, _ := newImportFixture()

	csv := `topic_id,kind,prompt,correct_answer,pairs,order
civics,matching,Match the branch to its role.,,legislative=makes laws;executive=enforces laws,
civics,ordering,Order the amendment steps.,,,propose|ratify|certify
`
	result, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 2, result.SuccessCount)

	questions, err := target.QuestionsByTopic(context.Background(), "civics")
	require.NoError(t, err)
	assert.Equal(t, "makes laws", questions[0].CorrectPairs["legislative"])
	assert.Equal(t, []string{"propose", "ratify", "certify"}, questions[1].CorrectOrder)
}

func TestImportFromFile_UnsupportedFormat(t *testing.T) {
	svc, _, _ := newImportFixture()
	_, err := svc.ImportQuestionsFromFile(context.Background(), strings.NewReader("{}"), "bank.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImport_EmptyFile(t *testing.T) {
	svc, _, _ := newImportFixture()
	_, err := svc.ImportQuestionsFromCSV(context.Background(), strings.NewReader("topic_id,kind,prompt\n"))
	assert.ErrorIs(t, err, ErrEmptyImport)
}

// Package contentfile reads challenge and quiz definitions from YAML
// files so content can be authored in an editor and submitted through
// the client without retyping it into a form.
package contentfile

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/edustack/content-studio/pkg/client"
)

type challengeFile struct {
	Title            string         `yaml:"title"`
	ShortDescription string         `yaml:"short_description"`
	ProblemStatement string         `yaml:"problem_statement"`
	DifficultyLevel  string         `yaml:"difficulty_level"`
	RewardPoints     int            `yaml:"reward_points"`
	EstimatedTime    int            `yaml:"estimated_time"`
	Tags             []string       `yaml:"tags"`
	TestCases        []testCaseFile `yaml:"test_cases"`
}

type testCaseFile struct {
	Input          string `yaml:"input"`
	ExpectedOutput string `yaml:"expected_output"`
	Explanation    string `yaml:"explanation"`
	IsHidden       bool   `yaml:"is_hidden"`
	IsExample      bool   `yaml:"is_example"`
	PointsWeight   int    `yaml:"points_weight"`
}

type quizFile struct {
	Title          string         `yaml:"title"`
	Description    string         `yaml:"description"`
	Instructions   []string       `yaml:"instructions"`
	TimeLimit      int            `yaml:"time_limit"`
	PassingScore   int            `yaml:"passing_score"`
	DueDate        string         `yaml:"due_date"`
	NotifyStudents bool           `yaml:"notify_students"`
	Questions      []questionFile `yaml:"questions"`
}

type questionFile struct {
	Text          string   `yaml:"text"`
	Options       []string `yaml:"options"`
	CorrectOption int      `yaml:"correct_option"`
	Points        int      `yaml:"points"`
}

// LoadChallenge reads a challenge definition from a YAML file
func LoadChallenge(path string) (client.ChallengeForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client.ChallengeForm{}, fmt.Errorf("failed to read file: %w", err)
	}

	var def challengeFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return client.ChallengeForm{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if def.Title == "" {
		return client.ChallengeForm{}, fmt.Errorf("title is required")
	}
	if len(def.TestCases) == 0 {
		return client.ChallengeForm{}, fmt.Errorf("at least one test case is required")
	}

	form := client.ChallengeForm{
		Title:            def.Title,
		ShortDescription: def.ShortDescription,
		ProblemStatement: def.ProblemStatement,
		DifficultyLevel:  def.DifficultyLevel,
		RewardPoints:     def.RewardPoints,
		EstimatedTime:    def.EstimatedTime,
		Tags:             def.Tags,
	}

	for _, tc := range def.TestCases {
		weight := tc.PointsWeight
		if weight == 0 {
			weight = 10
		}
		form.TestCases = append(form.TestCases, client.TestCaseForm{
			TempID:         uuid.NewString(),
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Explanation:    tc.Explanation,
			IsHidden:       tc.IsHidden,
			IsExample:      tc.IsExample,
			PointsWeight:   weight,
		})
	}

	return form, nil
}

// LoadQuiz reads a quiz definition from a YAML file
func LoadQuiz(path string) (client.QuizForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client.QuizForm{}, fmt.Errorf("failed to read file: %w", err)
	}

	var def quizFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return client.QuizForm{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if def.Title == "" {
		return client.QuizForm{}, fmt.Errorf("title is required")
	}
	if len(def.Questions) == 0 {
		return client.QuizForm{}, fmt.Errorf("at least one question is required")
	}

	form := client.QuizForm{
		Title:          def.Title,
		Description:    def.Description,
		Instructions:   def.Instructions,
		TimeLimit:      def.TimeLimit,
		PassingScore:   def.PassingScore,
		DueDate:        def.DueDate,
		NotifyStudents: def.NotifyStudents,
	}

	for _, q := range def.Questions {
		points := q.Points
		if points == 0 {
			points = 1
		}
		form.Questions = append(form.Questions, client.QuestionForm{
			TempID:        uuid.NewString(),
			Text:          q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Points:        points,
		})
	}

	return form, nil
}

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jershred/Monte-Carlo-tool/pkg/logger"
)

type noopJob struct{}

func (noopJob) Run() error   { return nil }
func (noopJob) Name() string { return "noop" }

func TestAddJob(t *testing.T) {
	s := New(logger.New(logger.Config{Level: "error"}))

	assert.NoError(t, s.AddJob("@daily", noopJob{}))
}

func TestAddJob_BadSchedule(t *testing.T) {
	s := New(logger.New(logger.Config{Level: "error"}))

	err := s.AddJob("not a schedule", noopJob{})
	assert.Error(t, err)
}

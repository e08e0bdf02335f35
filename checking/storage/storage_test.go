package storage

import (
	"context"
	"satori/checking/reporters"
	"satori/common/config"
	"satori/common/db"
	"satori/common/db/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	gormDB, err := db.NewDB(config.DBConfig{InMemory: true})
	require.NoError(t, err)
	return NewStorage(gormDB)
}

func makeTests(names ...string) []*models.Test {
	tests := make([]*models.Test, 0, len(names))
	for _, name := range names {
		data := models.OAMap{}
		data.SetStr("input", name)
		tests = append(tests, &models.Test{Name: name, Data: data})
	}
	return tests
}

func TestCreateTestSuite(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	t.Run("unknown reporter", func(t *testing.T) {
		_, err := s.CreateTestSuite(ctx, "bad", "NoSuchReporter", makeTests("a"))
		require.ErrorIs(t, err, reporters.ErrUnknownReporter)
	})

	t.Run("orders tests", func(t *testing.T) {
		suite, err := s.CreateTestSuite(ctx, "suite", "StatusReporter", makeTests("a", "b", "c"))
		require.NoError(t, err)
		require.Len(t, suite.Mappings, 3)

		order, err := s.TestOrder(ctx, suite.ID, suite.Mappings[2].TestID)
		require.NoError(t, err)
		require.Equal(t, 3, order)

		count, err := s.TestCount(ctx, suite.ID)
		require.NoError(t, err)
		require.EqualValues(t, 3, count)
	})
}

func TestCreateSubmit(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	first, err := s.CreateTestSuite(ctx, "first", "", makeTests("a", "b"))
	require.NoError(t, err)
	second, err := s.CreateTestSuite(ctx, "second", "PointsReporter", makeTests("c"))
	require.NoError(t, err)

	t.Run("unknown suite", func(t *testing.T) {
		_, _, err := s.CreateSubmit(ctx, nil, nil, []uint{first.ID, 1000})
		require.ErrorIs(t, err, ErrTestSuiteNotFound)
	})

	t.Run("creates results", func(t *testing.T) {
		overrides := models.OAMap{}
		overrides.SetStr("status", "ACC")
		submit, suiteResults, err := s.CreateSubmit(ctx, nil, overrides, []uint{second.ID, first.ID, first.ID})
		require.NoError(t, err)
		require.Len(t, suiteResults, 2)
		require.Equal(t, first.ID, suiteResults[0].TestSuiteID)
		require.Equal(t, second.ID, suiteResults[1].TestSuiteID)

		counts, err := s.QueueCounts(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 3, counts.Pending)
		require.EqualValues(t, 0, counts.Claimed)
		require.EqualValues(t, 2, counts.UnfinishedSuites)

		pending, err := s.PendingCount(ctx, submit.ID, first.ID)
		require.NoError(t, err)
		require.EqualValues(t, 2, pending)

		stored, err := s.SubmitOverrides(ctx, submit.ID)
		require.NoError(t, err)
		status, ok := stored.GetStr("status")
		require.True(t, ok)
		require.Equal(t, "ACC", status)
	})
}

func TestClaimAndComplete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	suite, err := s.CreateTestSuite(ctx, "suite", "", makeTests("a", "b"))
	require.NoError(t, err)
	submit, suiteResults, err := s.CreateSubmit(ctx, nil, nil, []uint{suite.ID})
	require.NoError(t, err)

	candidates, err := s.ClaimCandidates(ctx, 100, nil, true, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	t.Run("restricted judge", func(t *testing.T) {
		restricted, err := s.ClaimCandidates(ctx, 100, []uint{suite.ID + 1}, false, 10)
		require.NoError(t, err)
		require.Empty(t, restricted)
	})

	candidate := candidates[0]
	attempt := candidate.Attempt
	ok, err := s.Claim(ctx, candidate, "judge", 200)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, attempt+1, candidate.Attempt)

	t.Run("lost race", func(t *testing.T) {
		stale := *candidate
		stale.Attempt = attempt
		ok, err := s.Claim(ctx, &stale, "other", 200)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("claimed is not a candidate until expired", func(t *testing.T) {
		left, err := s.ClaimCandidates(ctx, 150, nil, true, 10)
		require.NoError(t, err)
		require.Len(t, left, 1)

		left, err = s.ClaimCandidates(ctx, 250, nil, true, 10)
		require.NoError(t, err)
		require.Len(t, left, 2)
	})

	result := models.OAMap{}
	result.SetStr("status", "OK")

	ok, err = s.Complete(ctx, candidate.ID, attempt, result, 300)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Complete(ctx, candidate.ID, candidate.Attempt, result, 300)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Complete(ctx, candidate.ID, candidate.Attempt, result, 300)
	require.NoError(t, err)
	require.False(t, ok)

	completed, err := s.CompletedTestResults(ctx, submit.ID, suite.ID)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, "a", completed[0].Test.Name)
	status, _ := completed[0].OA.GetStr("status")
	require.Equal(t, "OK", status)

	owners, err := s.OwningTestSuiteResults(ctx, completed[0])
	require.NoError(t, err)
	require.Equal(t, []uint{suiteResults[0].ID}, owners)

	suiteResults[0].Finished = true
	require.NoError(t, s.SaveTestSuiteResult(ctx, suiteResults[0]))

	owners, err = s.OwningTestSuiteResults(ctx, completed[0])
	require.NoError(t, err)
	require.Empty(t, owners)

	t.Run("finished suite hides pending tests", func(t *testing.T) {
		left, err := s.ClaimCandidates(ctx, 100, nil, true, 10)
		require.NoError(t, err)
		require.Empty(t, left)
	})
}

func TestReleaseExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	suite, err := s.CreateTestSuite(ctx, "suite", "", makeTests("a", "b"))
	require.NoError(t, err)
	_, _, err = s.CreateSubmit(ctx, nil, nil, []uint{suite.ID})
	require.NoError(t, err)

	candidates, err := s.ClaimCandidates(ctx, 0, nil, true, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	ok, err := s.Claim(ctx, candidates[0], "judge", 100)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.Claim(ctx, candidates[1], "judge", 500)
	require.NoError(t, err)
	require.True(t, ok)

	released, err := s.ReleaseExpired(ctx, 200)
	require.NoError(t, err)
	require.Len(t, released, 1)
	require.Equal(t, candidates[0].ID, released[0].ID)

	counts, err := s.QueueCounts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Claimed)

	// attempt is kept, so the judge which lost the lease still can report
	ok, err = s.Complete(ctx, candidates[0].ID, candidates[0].Attempt, models.OAMap{}, 300)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestStalledTestSuiteResults(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	one, err := s.CreateTestSuite(ctx, "one", "", makeTests("a"))
	require.NoError(t, err)
	two, err := s.CreateTestSuite(ctx, "two", "", makeTests("b", "c"))
	require.NoError(t, err)
	_, suiteResults, err := s.CreateSubmit(ctx, nil, nil, []uint{one.ID, two.ID})
	require.NoError(t, err)

	stalled, err := s.StalledTestSuiteResults(ctx)
	require.NoError(t, err)
	require.Empty(t, stalled)

	candidates, err := s.ClaimCandidates(ctx, 0, nil, true, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	for _, candidate := range candidates[:2] {
		ok, err := s.Claim(ctx, candidate, "judge", 100)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = s.Complete(ctx, candidate.ID, candidate.Attempt, models.OAMap{}, 50)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// suite "two" still waits for "c"
	stalled, err = s.StalledTestSuiteResults(ctx)
	require.NoError(t, err)
	require.Equal(t, []uint{suiteResults[0].ID}, stalled)

	suiteResults[0].Finished = true
	require.NoError(t, s.SaveTestSuiteResult(ctx, suiteResults[0]))

	stalled, err = s.StalledTestSuiteResults(ctx)
	require.NoError(t, err)
	require.Empty(t, stalled)
}

func TestSetSubmitOverrides(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.ErrorIs(t, s.SetSubmitOverrides(ctx, 42, models.OAMap{}), ErrSubmitNotFound)

	submit, _, err := s.CreateSubmit(ctx, nil, nil, nil)
	require.NoError(t, err)

	overrides := models.OAMap{}
	overrides.SetStr("report", "manual")
	require.NoError(t, s.SetSubmitOverrides(ctx, submit.ID, overrides))

	stored, err := s.SubmitOverrides(ctx, submit.ID)
	require.NoError(t, err)
	report, _ := stored.GetStr("report")
	require.Equal(t, "manual", report)
}

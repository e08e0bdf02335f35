package judge

import (
	"context"
	"satori/common/connectors/judgeconn"
	"satori/common/db/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandRunner(t *testing.T) {
	ctx := context.Background()

	testData := models.OAMap{}
	testData.SetStr("input", "42")
	submitData := models.OAMap{}
	submitData.SetBlob("source", []byte("status: ACC\nchecked: 3\n"), "main.go")
	task := &judgeconn.Task{
		TestResultID: 7,
		Attempt:      2,
		TestData:     testData,
		SubmitData:   submitData,
	}

	t.Run("scalars in environment", func(t *testing.T) {
		runner := NewCommandRunner([]string{"sh", "-c", `echo "status: OK"; echo "report: input $SATORI_TEST_INPUT attempt $SATORI_ATTEMPT"`}, t.TempDir())
		result, err := runner.Run(ctx, task)
		require.NoError(t, err)

		s, _ := result.GetStr("status")
		require.Equal(t, "OK", s)
		report, _ := result.GetStr("report")
		require.Equal(t, "input 42 attempt 2", report)
	})

	t.Run("blobs in files", func(t *testing.T) {
		runner := NewCommandRunner([]string{"sh", "-c", `cat "$SATORI_SUBMIT_SOURCE"`}, t.TempDir())
		result, err := runner.Run(ctx, task)
		require.NoError(t, err)

		s, _ := result.GetStr("status")
		require.Equal(t, "ACC", s)
		checked, _ := result.GetStr("checked")
		require.Equal(t, "3", checked)
	})

	t.Run("failing command", func(t *testing.T) {
		runner := NewCommandRunner([]string{"sh", "-c", "echo broken >&2; exit 3"}, t.TempDir())
		_, err := runner.Run(ctx, task)
		require.ErrorContains(t, err, "broken")
	})

	t.Run("bad output", func(t *testing.T) {
		runner := NewCommandRunner([]string{"sh", "-c", "echo '- just a list'"}, t.TempDir())
		_, err := runner.Run(ctx, task)
		require.Error(t, err)
	})
}

func TestEnvName(t *testing.T) {
	require.Equal(t, "TIME_LIMIT", envName("time-limit"))
	require.Equal(t, "MEM2", envName("mem2"))
}

package judge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"satori/common/connectors/judgeconn"
	"satori/common/db/models"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const envPrefix = "SATORI_"

// CommandRunner checks task by running external command.
//
// Scalar attributes of test and submit are passed in environment variables SATORI_TEST_<NAME> and SATORI_SUBMIT_<NAME>,
// blobs are written to files in a temporary directory and the variables contain their paths.
// The command should print result attributes to stdout as YAML mapping, e.g. "status: OK".
type CommandRunner struct {
	command []string
	workDir string
}

func NewCommandRunner(command []string, workDir string) *CommandRunner {
	return &CommandRunner{
		command: command,
		workDir: workDir,
	}
}

func (r *CommandRunner) Run(ctx context.Context, task *judgeconn.Task) (models.OAMap, error) {
	if len(r.command) == 0 {
		return nil, fmt.Errorf("no command to run")
	}

	dir, err := os.MkdirTemp(r.workDir, fmt.Sprintf("test-result-%d-", task.TestResultID))
	if err != nil {
		return nil, fmt.Errorf("can not create task directory: %w", err)
	}
	defer os.RemoveAll(dir)

	env := append(os.Environ(),
		envPrefix+"TEST_RESULT_ID="+strconv.FormatUint(uint64(task.TestResultID), 10),
		envPrefix+"ATTEMPT="+strconv.FormatUint(task.Attempt, 10),
	)
	env, err = appendAttributes(env, dir, "TEST", task.TestData)
	if err != nil {
		return nil, err
	}
	env, err = appendAttributes(env, dir, "SUBMIT", task.SubmitData)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err = cmd.Run(); err != nil {
		return nil, fmt.Errorf("command %v failed: %w, stderr: %s", r.command, err, strings.TrimSpace(stderr.String()))
	}
	return parseResult(stdout.Bytes())
}

func appendAttributes(env []string, dir string, group string, attributes models.OAMap) ([]string, error) {
	for name, attribute := range attributes {
		key := envPrefix + group + "_" + envName(name)
		if !attribute.IsBlob {
			env = append(env, key+"="+attribute.Value)
			continue
		}
		filename := strings.ToLower(group) + "_" + envName(name)
		if attribute.Filename != "" {
			filename += "_" + filepath.Base(attribute.Filename)
		}
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, attribute.Blob, 0644); err != nil {
			return nil, fmt.Errorf("can not write blob %s: %w", name, err)
		}
		env = append(env, key+"="+path)
	}
	return env, nil
}

func envName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

func parseResult(output []byte) (models.OAMap, error) {
	var values map[string]any
	if err := yaml.Unmarshal(output, &values); err != nil {
		return nil, fmt.Errorf("can not parse command output: %w", err)
	}
	result := models.OAMap{}
	for name, value := range values {
		switch v := value.(type) {
		case nil:
			result.SetStr(name, "")
		case map[string]any, []any:
			b, err := yaml.Marshal(v)
			if err != nil {
				return nil, err
			}
			result.SetStr(name, strings.TrimSpace(string(b)))
		default:
			result.SetStr(name, fmt.Sprint(v))
		}
	}
	return result, nil
}

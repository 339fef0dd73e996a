package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolInvocationError(t *testing.T) {
	cause := errors.New("exit status 1")

	tests := []struct {
		name string
		err  *ToolInvocationError
		want string
	}{
		{
			name: "non-zero exit with stderr",
			err:  &ToolInvocationError{Args: []string{"pull", "bitnami/nginx"}, ExitCode: 1, Stderr: "Error: chart not found", Err: cause},
			want: "helm pull bitnami/nginx exited with code 1: exit status 1: Error: chart not found",
		},
		{
			name: "timeout",
			err:  &ToolInvocationError{Args: []string{"repo", "list"}, ExitCode: -1, TimedOut: true},
			want: "helm repo list timed out",
		},
		{
			name: "spawn failure",
			err:  &ToolInvocationError{Args: []string{"version"}, ExitCode: -1, Err: errors.New("executable file not found")},
			want: "helm version could not be run: executable file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	assert.ErrorIs(t, tests[0].err, cause)
}

func TestYAMLParseError(t *testing.T) {
	cause := errors.New("cannot unmarshal !!str into map")

	withDoc := &YAMLParseError{Operation: "template output", Document: 2, Err: cause}
	assert.Equal(t, "failed to parse template output (document 2): cannot unmarshal !!str into map", withDoc.Error())
	assert.ErrorIs(t, withDoc, cause)

	noDoc := &YAMLParseError{Operation: "repo list output", Document: -1, Err: cause}
	assert.Equal(t, "failed to parse repo list output: cannot unmarshal !!str into map", noDoc.Error())
}

func TestIOErrorAndConfigError(t *testing.T) {
	cause := errors.New("permission denied")

	ioErr := &IOError{Op: "read", Path: "templates/deployment.yaml", Err: cause}
	assert.Equal(t, "read templates/deployment.yaml: permission denied", ioErr.Error())
	assert.ErrorIs(t, ioErr, cause)

	noPath := &IOError{Op: "create temporary directory", Err: cause}
	assert.Equal(t, "create temporary directory: permission denied", noPath.Error())

	cfgErr := &ConfigError{Argument: "chart path", Reason: "must not be empty"}
	assert.Equal(t, "invalid chart path: must not be empty", cfgErr.Error())

	utfErr := &InvalidUTF8Error{Source: "helm template output"}
	assert.Equal(t, "helm template output is not valid UTF-8", utfErr.Error())
}

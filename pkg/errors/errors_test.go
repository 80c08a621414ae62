// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/arthur-debert/stowng/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "file not found",
			wantStr: "[NOT_FOUND] file not found",
		},
		{
			name:    "package_not_found_error",
			code:    errors.ErrPackageNotFound,
			message: "the stow directory does not contain package vim",
			wantStr: "[PACKAGE_NOT_FOUND] the stow directory does not contain package vim",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		format  string
		args    []interface{}
		wantMsg string
	}{
		{
			name:    "format_with_string",
			code:    errors.ErrInvalidInput,
			format:  "invalid value: %s",
			args:    []interface{}{"test"},
			wantMsg: "invalid value: test",
		},
		{
			name:    "format_with_multiple_args",
			code:    errors.ErrSymlinkCreate,
			format:  "cannot link %s to %s",
			args:    []interface{}{"bin/vim", "../stow/vim/bin/vim"},
			wantMsg: "cannot link bin/vim to ../stow/vim/bin/vim",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.Newf(tt.code, tt.format, tt.args...)

			if err.Message != tt.wantMsg {
				t.Errorf("Newf() message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrDirRemove, "cannot remove directory")

		if err.Code != errors.ErrDirRemove {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrDirRemove)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[DIR_REMOVE] cannot remove directory: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrMove, "cannot move %s", "a")
		if err.Message != "cannot move a" {
			t.Errorf("Wrapf() message = %q", err.Message)
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "not found").
		WithDetail("path", "/test/path").
		WithDetail("type", "file")

	if err.Details["path"] != "/test/path" {
		t.Errorf("WithDetail() path = %v, want %v", err.Details["path"], "/test/path")
	}

	if err.Details["type"] != "file" {
		t.Errorf("WithDetail() type = %v, want %v", err.Details["type"], "file")
	}

	if got := errors.GetErrorDetails(err)["path"]; got != "/test/path" {
		t.Errorf("GetErrorDetails() path = %v", got)
	}
	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() should be nil for non stow errors")
	}
}

func TestIs(t *testing.T) {
	aborted := errors.New(errors.ErrConflicts, "All operations aborted.").WithDetail("count", 2)

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "conflict_abort_matches_any_conflict_error",
			err:    aborted,
			target: errors.New(errors.ErrConflicts, "other message"),
			want:   true,
		},
		{
			name:   "conflict_abort_through_fmt_wrap",
			err:    fmt.Errorf("stow pkg4: %w", aborted),
			target: errors.New(errors.ErrConflicts, ""),
			want:   true,
		},
		{
			name:   "missing_package_is_not_a_conflict",
			err:    errors.New(errors.ErrPackageNotFound, "the stow directory ../stow does not contain package vim"),
			target: aborted,
			want:   false,
		},
		{
			name:   "readlink_failure_keeps_os_cause",
			err:    errors.Wrapf(fs.ErrNotExist, errors.ErrFileAccess, "could not readlink %s", "bin"),
			target: fs.ErrNotExist,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestIsErrorCode(t *testing.T) {
	notALink := errors.Newf(errors.ErrNotALink, "read_a_link() passed a non link path: %s", "bin4").
		WithDetail("path", "bin4")

	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
		want bool
	}{
		{"not_a_link", notALink, errors.ErrNotALink, true},
		{"not_a_link_behind_fmt_wrap", fmt.Errorf("planning stow: %w", notALink), errors.ErrNotALink, true},
		{"not_a_link_is_not_file_access", notALink, errors.ErrFileAccess, false},
		{"outermost_code_wins", errors.Wrap(notALink, errors.ErrConflicts, "aborted"), errors.ErrNotALink, false},
		{"plain_os_error", fs.ErrPermission, errors.ErrFileAccess, false},
		{"nil", nil, errors.ErrConflicts, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.want {
				t.Errorf("IsErrorCode(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	missing := errors.Newf(errors.ErrPackageNotFound, "the stow directory %s does not contain package %s", "../stow", "vim").
		WithDetail("package", "vim")

	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"missing_package", missing, errors.ErrPackageNotFound},
		{"missing_package_behind_fmt_wrap", fmt.Errorf("run: %w", missing), errors.ErrPackageNotFound},
		{"conflict_abort", errors.New(errors.ErrConflicts, "All operations aborted."), errors.ErrConflicts},
		{"os_error", fs.ErrExist, errors.ErrUnknown},
		{"nil", nil, errors.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.want {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := errors.GetErrorDetails(fmt.Errorf("run: %w", missing))["package"]; got != "vim" {
		t.Errorf("GetErrorDetails() package = %v, want vim", got)
	}
}

func TestInternalfPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Internalf() should panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("Internalf() panicked with %T, want error", r)
		}
		if !errors.IsErrorCode(err, errors.ErrInternal) {
			t.Errorf("Internalf() code = %v, want %v", errors.GetErrorCode(err), errors.ErrInternal)
		}
		if want := "[INTERNAL] both create and remove tasks on a"; err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	}()

	errors.Internalf("both create and remove tasks on %s", "a")
}

func TestConfigLoadChain(t *testing.T) {
	cause := fs.ErrPermission
	read := errors.Wrapf(cause, errors.ErrFileAccess, "cannot read %s", ".stowrc")
	load := errors.Wrap(read, errors.ErrConfigLoad, "cannot load configuration")

	if got := errors.GetErrorCode(load); got != errors.ErrConfigLoad {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrConfigLoad)
	}
	if got := errors.GetErrorCode(load.Unwrap()); got != errors.ErrFileAccess {
		t.Errorf("GetErrorCode(Unwrap()) = %v, want %v", got, errors.ErrFileAccess)
	}
	if !stderrors.Is(load, cause) {
		t.Error("errors.Is() should reach the permission error")
	}

	want := "[CONFIG_LOAD] cannot load configuration: [FILE_ACCESS] cannot read .stowrc: permission denied"
	if got := load.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

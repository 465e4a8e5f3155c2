package publishcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-mdpublish/internal/publish"
)

const (
	publishFileMessageType = "mdpublish.publish.file"
	publishListMessageType = "mdpublish.publish.list"
)

// Reporter receives the batch outcome once a command has run.
type Reporter func(publish.BatchResult)

// PublishFileCommand publishes a single Markdown document.
type PublishFileCommand struct {
	// Path is the Markdown file to publish.
	Path string `json:"path"`
	// Report, when set, receives the per-file outcome.
	Report Reporter `json:"-"`
}

// Type implements command.Message.
func (PublishFileCommand) Type() string { return publishFileMessageType }

// Validate ensures a path is present before handlers execute.
func (cmd PublishFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(notBlank("mdpublish.publish.file.path_required", "path is required"))),
	)
}

// PublishListCommand publishes every document named in a list file, one
// absolute path per line.
type PublishListCommand struct {
	ListPath string   `json:"list_path"`
	Report   Reporter `json:"-"`
}

// Type implements command.Message.
func (PublishListCommand) Type() string { return publishListMessageType }

// Validate ensures a list path is present before handlers execute.
func (cmd PublishListCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ListPath, validation.Required, validation.By(notBlank("mdpublish.publish.list.path_required", "list path is required"))),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}

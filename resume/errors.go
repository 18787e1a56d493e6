package resume

import "errors"

// Sentinel errors for document validation and editing.
var (
	ErrNoSections        = errors.New("document must enable at least one section")
	ErrDuplicateSection  = errors.New("duplicate section key")
	ErrUnknownSection    = errors.New("unknown section key")
	ErrDuplicateCustom   = errors.New("duplicate custom section key")
	ErrReservedKey       = errors.New("custom section key is reserved")
	ErrEmptyKey          = errors.New("custom section key cannot be empty")
	ErrNotCustom         = errors.New("section is not a custom section")
	ErrNotEntrySection   = errors.New("section does not hold entries")
	ErrNotListSection    = errors.New("section does not hold a list")
	ErrUnknownField      = errors.New("unknown field")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrLastSection       = errors.New("cannot disable the last enabled section")
	ErrModeMismatch      = errors.New("custom section is in the wrong mode")
	ErrInvalidSkillLevel = errors.New("invalid skill level")
	ErrUnknownAction     = errors.New("unknown action")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrParse             = errors.New("failed to parse document")
	ErrRead              = errors.New("failed to read document")
)

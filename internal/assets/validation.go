package assets

import "fmt"

// maxAssetNameLength bounds asset names; real ones are a single word.
const maxAssetNameLength = 64

// ValidateAssetName accepts names made of ASCII letters, digits, '-' and '_'.
// Anything else (separators, dots, NUL, spaces) could escape the asset
// directory or change the extension, and is rejected with ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrInvalidAssetName, len(name), maxAssetNameLength)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}

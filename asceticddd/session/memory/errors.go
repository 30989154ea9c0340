package memory

import "errors"

var ErrIdGenerationUnsupported = errors.New("memory: identifier type cannot be generated")

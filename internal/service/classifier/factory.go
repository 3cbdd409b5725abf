package classifier

import (
	"fmt"

	"github.com/sandevgo/teammem/internal/core"
)

const (
	KindPriority = "priority"
	KindScored   = "scored"
)

func New(kind string) (core.Classifier, error) {
	switch kind {
	case "", KindPriority:
		return NewPriority(), nil
	case KindScored:
		return NewScored(), nil
	default:
		return nil, fmt.Errorf("unknown classifier: %s", kind)
	}
}

package worker

import (
	"fmt"

	"github.com/okian/careerpath/internal/domain/embedding"
)

// Both wrap embedding.ErrEmbed so callers can treat them as embedding failures.
var (
	ErrBackpressure = fmt.Errorf("%w: embedding queue is full", embedding.ErrEmbed)
	ErrStopped      = fmt.Errorf("%w: embedding pool stopped", embedding.ErrEmbed)
)

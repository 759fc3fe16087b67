package collecting

import (
	"fmt"

	"github.com/vfg2006/media-delivery-dashboard/internal/domain"
)

// SourceError identifica o arquivo de export que falhou
type SourceError struct {
	Channel domain.ChannelKind
	Name    string
	Err     error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("export %s (%s): %v", e.Name, e.Channel, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

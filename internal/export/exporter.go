package export

import (
	"context"

	"github.com/empmgmt/backend/internal/domain"
)

// Exporter runs one kind of export: it interprets the serialized filter
// params, fetches the matching records and renders an artifact, returning the
// durable file path. The pipeline itself never looks inside params.
type Exporter interface {
	Export(ctx context.Context, paramsJSON string) (string, error)
}

// Exporters maps the closed set of task types to their implementations.
// A task type without an entry is a data error, not a transient one.
type Exporters map[domain.TaskType]Exporter

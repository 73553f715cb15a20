package connector

import (
	"context"

	"github.com/google/uuid"

	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/typedef"
)

// WebConfig and WebTable carry no options: "web" is the parameterless preview sink every
// statement's connector sink is replaced by in preview mode (§4.5, §6), and the implicit sink
// for a bare anonymous SELECT.
type WebConfig struct{}
type WebTable struct{}

type webConnector struct{}

func (webConnector) Name() string { return "web" }

func (webConnector) Metadata() Metadata {
	return Metadata{Name: "web", Description: "preview/debug sink", SinkCapable: true}
}

func (webConnector) TableType(WebConfig, WebTable) TableType { return TableTypeSink }

func (webConnector) Test(ctx context.Context, _ string, _ WebConfig, _ WebTable, _ *typedef.StructDef, progress chan<- TestSourceMessage) {
	defer close(progress)
	send(ctx, progress, TestSourceMessage{OK: true, Message: "preview sink is always available", Done: true})
}

func (c webConnector) FromOptions(name string, _ map[string]string, schema *typedef.StructDef) (catalog.Connection, error) {
	return c.FromConfig(uuid.NewString(), name, WebConfig{}, WebTable{}, schema)
}

func (webConnector) FromConfig(id, name string, _ WebConfig, _ WebTable, schema *typedef.StructDef) (catalog.Connection, error) {
	return catalog.Connection{ID: id, Name: name, Type: catalog.ConnectionSink, Schema: schema, Operator: "web"}, nil
}

func init() {
	Register("web", Erase[WebConfig, WebTable](webConnector{}))
}

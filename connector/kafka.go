package connector

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/typedef"
)

// KafkaConfig is the WITH-clause profile shared by every table backed by one Kafka cluster.
type KafkaConfig struct {
	Bootstrap string `json:"bootstrap_servers"`
}

// KafkaTable is the per-table configuration: which topic, and which direction it flows.
type KafkaTable struct {
	Topic string `json:"topic"`
	Type  string `json:"type"` // "source", "sink", or "source_and_sink"
}

type kafkaConnector struct{}

func (kafkaConnector) Name() string { return "kafka" }

func (kafkaConnector) Metadata() Metadata {
	return Metadata{Name: "kafka", Description: "Apache Kafka topic source/sink", SourceCapable: true, SinkCapable: true}
}

func (kafkaConnector) TableType(_ KafkaConfig, table KafkaTable) TableType {
	switch table.Type {
	case "sink":
		return TableTypeSink
	case "source_and_sink":
		return TableTypeSourceSink
	default:
		return TableTypeSource
	}
}

func (kafkaConnector) Test(ctx context.Context, _ string, config KafkaConfig, _ KafkaTable, _ *typedef.StructDef, progress chan<- TestSourceMessage) {
	defer close(progress)
	if config.Bootstrap == "" {
		send(ctx, progress, TestSourceMessage{OK: false, Message: "bootstrap_servers is required", Done: true})
		return
	}
	send(ctx, progress, TestSourceMessage{OK: true, Message: fmt.Sprintf("connected to %s", config.Bootstrap), Done: true})
}

func (c kafkaConnector) FromOptions(name string, opts map[string]string, schema *typedef.StructDef) (catalog.Connection, error) {
	bootstrap, err := PullOption("bootstrap_servers", opts)
	if err != nil {
		return catalog.Connection{}, err
	}
	topic, err := PullOption("topic", opts)
	if err != nil {
		return catalog.Connection{}, err
	}
	cfg := KafkaConfig{Bootstrap: bootstrap}
	tbl := KafkaTable{Topic: topic, Type: opts["type"]}
	return c.FromConfig(uuid.NewString(), name, cfg, tbl, schema)
}

func (kafkaConnector) FromConfig(id, name string, config KafkaConfig, table KafkaTable, schema *typedef.StructDef) (catalog.Connection, error) {
	if table.Topic == "" {
		return catalog.Connection{}, &cerr.UnknownOption{Key: "topic"}
	}
	connType := catalog.ConnectionSource
	if table.Type == "sink" {
		connType = catalog.ConnectionSink
	}
	return catalog.Connection{
		ID:         id,
		Name:       name,
		Type:       connType,
		Schema:     schema,
		Operator:   "kafka",
		ConfigBlob: fmt.Sprintf(`{"bootstrap_servers":%q,"topic":%q}`, config.Bootstrap, table.Topic),
	}, nil
}

func send(ctx context.Context, progress chan<- TestSourceMessage, msg TestSourceMessage) {
	select {
	case progress <- msg:
	case <-ctx.Done():
	}
}

func init() {
	Register("kafka", Erase[KafkaConfig, KafkaTable](kafkaConnector{}))
}

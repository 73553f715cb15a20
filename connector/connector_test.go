package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/core/cerr"
)

func TestPullOptionRemovesKeyOnSuccess(t *testing.T) {
	opts := map[string]string{"topic": "events", "type": "source"}
	v, err := PullOption("topic", opts)
	require.NoError(t, err)
	assert.Equal(t, "events", v)
	_, stillPresent := opts["topic"]
	assert.False(t, stillPresent)
}

func TestPullOptionMissingKeyFails(t *testing.T) {
	_, err := PullOption("topic", map[string]string{})
	require.Error(t, err)
	var unknown *cerr.UnknownOption
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "topic", unknown.Key)
}

func TestKafkaConnectorRegisteredAndResolvable(t *testing.T) {
	c, ok := Lookup("kafka")
	require.True(t, ok)
	assert.Equal(t, "kafka", c.Name())
	assert.True(t, c.Metadata().SourceCapable)
	assert.True(t, c.Metadata().SinkCapable)
}

func TestKafkaFromOptionsMissingRequiredOption(t *testing.T) {
	c, _ := Lookup("kafka")
	_, err := c.FromOptions("events", map[string]string{"topic": "events"}, nil)
	require.Error(t, err)
	var unknown *cerr.UnknownOption
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "bootstrap_servers", unknown.Key)
}

func TestKafkaFromOptionsSuccess(t *testing.T) {
	c, _ := Lookup("kafka")
	opts := map[string]string{"bootstrap_servers": "localhost:9092", "topic": "events"}
	conn, err := c.FromOptions("events", opts, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, conn.ID)
	assert.Equal(t, "events", conn.Name)
	assert.Equal(t, "kafka", conn.Operator)
	assert.Contains(t, conn.ConfigBlob, "localhost:9092")

	// every required key should have been consumed
	_, topicLeft := opts["topic"]
	assert.False(t, topicLeft)
}

func TestKafkaTableTypeThroughErasedBoundary(t *testing.T) {
	c, _ := Lookup("kafka")
	tt, err := c.TableType(`{"bootstrap_servers":"localhost:9092"}`, `{"topic":"events","type":"sink"}`)
	require.NoError(t, err)
	assert.Equal(t, TableTypeSink, tt)
}

func TestErasedConnectorRejectsMalformedJSON(t *testing.T) {
	c, _ := Lookup("kafka")
	_, err := c.TableType(`not json`, `{}`)
	require.Error(t, err)
	var cfgErr *cerr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestKafkaTestSucceedsWithBootstrapServers(t *testing.T) {
	c, _ := Lookup("kafka")
	progress := make(chan TestSourceMessage, 4)
	err := c.Test(context.Background(), "events", `{"bootstrap_servers":"localhost:9092"}`, `{"topic":"events"}`, nil, progress)
	require.NoError(t, err)
	msg := <-progress
	assert.True(t, msg.OK)
	assert.Contains(t, msg.Message, "localhost:9092")
	assert.True(t, msg.Done)
	_, open := <-progress
	assert.False(t, open)
}

func TestKafkaTestFailsWithoutBootstrapServers(t *testing.T) {
	c, _ := Lookup("kafka")
	progress := make(chan TestSourceMessage, 4)
	err := c.Test(context.Background(), "events", `{}`, `{"topic":"events"}`, nil, progress)
	require.NoError(t, err)
	msg := <-progress
	assert.False(t, msg.OK)
	assert.Contains(t, msg.Message, "bootstrap_servers")
	assert.True(t, msg.Done)
}

func TestKafkaTestRejectsMalformedConfigBlob(t *testing.T) {
	c, _ := Lookup("kafka")
	progress := make(chan TestSourceMessage, 4)
	err := c.Test(context.Background(), "events", `not json`, `{"topic":"events"}`, nil, progress)
	require.Error(t, err)
	var cfgErr *cerr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestWebConnectorAlwaysSucceedsOnTest(t *testing.T) {
	c, ok := Lookup("web")
	require.True(t, ok)
	progress := make(chan TestSourceMessage, 4)
	err := c.Test(context.Background(), "preview", "", "", nil, progress)
	require.NoError(t, err)
	msg := <-progress
	assert.True(t, msg.OK)
	assert.True(t, msg.Done)
	_, open := <-progress
	assert.False(t, open)
}

func TestWebFromOptionsIgnoresExtraOptions(t *testing.T) {
	c, _ := Lookup("web")
	conn, err := c.FromOptions("preview_sink", map[string]string{"whatever": "ignored"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "web", conn.Operator)
	assert.NotEmpty(t, conn.ID)
}

func TestNamesIncludesBuiltins(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "kafka")
	assert.Contains(t, names, "web")
}

package rabbitmq

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeclarer struct {
	declared []string
	durable  []bool
	failOn   string
	err      error
}

func (f *fakeDeclarer) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if name == f.failOn {
		return amqp.Queue{}, f.err
	}

	f.declared = append(f.declared, name)
	f.durable = append(f.durable, durable)

	return amqp.Queue{Name: name}, nil
}

func TestDeclareQueues(t *testing.T) {
	t.Run("DeclaresAllDurable", func(t *testing.T) {
		ch := &fakeDeclarer{}

		err := declareQueues(ch, []string{"price_fetch_queue", "price_update_queue"})
		require.NoError(t, err)

		assert.Equal(t, []string{"price_fetch_queue", "price_update_queue"}, ch.declared)
		assert.Equal(t, []bool{true, true}, ch.durable)
	})

	t.Run("NoQueues", func(t *testing.T) {
		ch := &fakeDeclarer{}

		require.NoError(t, declareQueues(ch, nil))
		assert.Empty(t, ch.declared)
	})

	t.Run("DeclareFailureNamesQueue", func(t *testing.T) {
		declareErr := errors.New("access refused")
		ch := &fakeDeclarer{failOn: "price_update_queue", err: declareErr}

		err := declareQueues(ch, []string{"price_fetch_queue", "price_update_queue"})
		require.ErrorIs(t, err, declareErr)
		assert.Contains(t, err.Error(), "price_update_queue")

		assert.Equal(t, []string{"price_fetch_queue"}, ch.declared)
	})
}

package kafka

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers("a:9092, b:9092,"))
	assert.Empty(t, ParseBrokers(""))
}

func TestCreateChannelWithoutBrokers(t *testing.T) {
	_, _, err := CreateChannel(watermill.NopLogger{}, nil, "hireflow")
	require.ErrorIs(t, err, ErrNoBrokers)
}

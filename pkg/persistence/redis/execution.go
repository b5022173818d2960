package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const (
	executionsKey    = keyPrefix + "executions"
	executionSeqKey  = keyPrefix + "executions:seq"
	executionDataKey = keyPrefix + "execution:"
)

// saveExecution stores the record and, for a new id, appends it to the ring
// and evicts everything past capacity, all in one server-side step.
//
// KEYS[1] ring zset, KEYS[2] seq counter, KEYS[3] data key prefix
// ARGV[1] execution id, ARGV[2] json, ARGV[3] capacity
var saveExecution = redis.NewScript(`
local ring, seq, prefix = KEYS[1], KEYS[2], KEYS[3]
local id, data, capacity = ARGV[1], ARGV[2], tonumber(ARGV[3])

redis.call("SET", prefix .. id, data)

if redis.call("ZSCORE", ring, id) then
	return 0
end

redis.call("ZADD", ring, redis.call("INCR", seq), id)

local overflow = redis.call("ZCARD", ring) - capacity
if overflow > 0 then
	local evicted = redis.call("ZRANGE", ring, 0, overflow - 1)
	for _, old in ipairs(evicted) do
		redis.call("DEL", prefix .. old)
	end
	redis.call("ZREMRANGEBYRANK", ring, 0, overflow - 1)
	return overflow
end

return 0
`)

// ExecutionRepository implements the execution ring.
type ExecutionRepository struct {
	client   redis.UniversalClient
	capacity int
}

func NewExecutionRepository(client redis.UniversalClient, capacity int) *ExecutionRepository {
	return &ExecutionRepository{client: client, capacity: capacity}
}

func (r *ExecutionRepository) Save(ctx context.Context, execution *models.WorkflowExecution) error {
	data, err := json.Marshal(execution)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, fmt.Errorf("failed to marshal execution: %w", err))
	}

	err = saveExecution.Run(ctx, r.client,
		[]string{executionsKey, executionSeqKey, executionDataKey},
		execution.ID, data, r.capacity,
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	value, err := r.client.Get(ctx, executionDataKey+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
	}

	if err != nil {
		return nil, persistence.NewExecutionError("GetByID", id, err)
	}

	var execution models.WorkflowExecution
	if err := json.Unmarshal([]byte(value), &execution); err != nil {
		return nil, persistence.NewExecutionError("GetByID", id, fmt.Errorf("failed to unmarshal execution: %w", err))
	}

	return &execution, nil
}

func (r *ExecutionRepository) List(ctx context.Context) ([]*models.WorkflowExecution, error) {
	ids, err := r.client.ZRevRange(ctx, executionsKey, 0, int64(r.capacity-1)).Result()
	if err != nil {
		return nil, persistence.NewExecutionError("List", "", err)
	}

	executions := make([]*models.WorkflowExecution, 0, len(ids))
	if len(ids) == 0 {
		return executions, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = executionDataKey + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, persistence.NewExecutionError("List", "", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// evicted between ZREVRANGE and MGET
			continue
		}

		var execution models.WorkflowExecution
		if err := json.Unmarshal([]byte(raw), &execution); err != nil {
			return nil, persistence.NewExecutionError("List", "", fmt.Errorf("failed to unmarshal execution: %w", err))
		}

		executions = append(executions, &execution)
	}

	return executions, nil
}

package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyResponse   = errors.New("empty recommender response")
	ErrMalformedJSON   = errors.New("malformed recommender response")
	ErrMissingComment  = errors.New("recommender response has no comment")
	ErrBadMaterialItem = errors.New("unrecognized material item in recommender response")
)

// Result 推荐引擎的解析结果：推荐语加零个或多个素材ID
type Result struct {
	Comment     string
	MaterialIDs []uint
}

type rawPayload struct {
	Comment string            `json:"comment"`
	Results []json.RawMessage `json:"results"`

	// 部分网关把真正的JSON再序列化一次塞进output字段
	Output string `json:"output"`
}

// Parse 把推荐引擎返回的载荷解析为 Result。
// 兼容三种形态：顶层对象、单元素数组包装、以及 output 字段内的二次序列化JSON。
func Parse(body []byte) (*Result, error) {
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}

	payload, err := unwrap(body)
	if err != nil {
		return nil, err
	}

	if payload.Comment == "" {
		return nil, ErrMissingComment
	}

	result := &Result{Comment: payload.Comment}
	for _, item := range payload.Results {
		id, err := parseMaterialItem(item)
		if err != nil {
			return nil, err
		}
		result.MaterialIDs = append(result.MaterialIDs, id)
	}

	return result, nil
}

func unwrap(body []byte) (*rawPayload, error) {
	var payload rawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// 顶层可能是单元素数组
		var list []rawPayload
		if err := json.Unmarshal(body, &list); err != nil || len(list) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMalformedJSON, truncate(body))
		}
		payload = list[0]
	}

	if payload.Output != "" {
		var inner rawPayload
		if err := json.Unmarshal([]byte(payload.Output), &inner); err != nil {
			return nil, fmt.Errorf("%w: nested output: %s", ErrMalformedJSON, truncate(body))
		}
		return &inner, nil
	}

	return &payload, nil
}

// 素材项既可能是裸数字，也可能是 {"id": n} 对象
func parseMaterialItem(item json.RawMessage) (uint, error) {
	var id uint
	if err := json.Unmarshal(item, &id); err == nil {
		return id, nil
	}

	var obj struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(item, &obj); err != nil || obj.ID == 0 {
		return 0, fmt.Errorf("%w: %s", ErrBadMaterialItem, string(item))
	}
	return obj.ID, nil
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

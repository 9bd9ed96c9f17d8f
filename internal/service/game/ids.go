package game

import (
	"encoding/json"
	"fmt"

	appErr "loteria-service/pkg/errors"

	"gorm.io/datatypes"
)

func emptyIDList() datatypes.JSON {
	return datatypes.JSON("[]")
}

func idsFromJSON(raw datatypes.JSON) ([]int64, error) {
	if len(raw) == 0 {
		return []int64{}, nil
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrCorruptGameState, err)
	}
	return ids, nil
}

func idsToJSON(ids []int64) datatypes.JSON {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return emptyIDList()
	}
	return datatypes.JSON(data)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

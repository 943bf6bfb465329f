package hook

import (
	"encoding/json"
	"fmt"

	"github.com/spacedl/spacedl/twitter"
	lua "github.com/yuin/gopher-lua"
)

// toLua converts JSON-shaped Go values into Lua values.
func toLua(L *lua.LState, v any) lua.LValue {
	switch value := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(value)
	case bool:
		return lua.LBool(value)
	case float64:
		return lua.LNumber(value)
	case int:
		return lua.LNumber(value)
	case []string:
		tbl := L.NewTable()
		for _, s := range value {
			tbl.Append(lua.LString(s))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for _, item := range value {
			tbl.Append(toLua(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range value {
			tbl.RawSetString(k, toLua(L, item))
		}
		return tbl
	case twitter.Headers:
		tbl := L.NewTable()
		for k, item := range value {
			tbl.RawSetString(k, lua.LString(item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprint(value))
	}
}

// fromLua converts a Lua value into a JSON-shaped Go value. Tables with a
// positive length become slices, every other table becomes a map.
func fromLua(v lua.LValue) any {
	switch value := v.(type) {
	case lua.LString:
		return string(value)
	case lua.LBool:
		return bool(value)
	case lua.LNumber:
		return float64(value)
	case *lua.LTable:
		if n := value.MaxN(); n > 0 {
			items := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				items = append(items, fromLua(value.RawGetInt(i)))
			}
			return items
		}

		m := make(map[string]any)
		value.ForEach(func(k, item lua.LValue) {
			m[k.String()] = fromLua(item)
		})
		return m
	default:
		return nil
	}
}

func stringToLua(_ *lua.LState, s string) lua.LValue {
	return lua.LString(s)
}

func stringFromLua(v lua.LValue) (string, error) {
	switch v.Type() {
	case lua.LTString, lua.LTNumber:
		return v.String(), nil
	default:
		return "", fmt.Errorf("expected string, got %s", v.Type())
	}
}

func stringsToLua(L *lua.LState, s []string) lua.LValue {
	return toLua(L, s)
}

func stringsFromLua(v lua.LValue) ([]string, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected table, got %s", v.Type())
	}

	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		s, err := stringFromLua(tbl.RawGetInt(i))
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func headersToLua(L *lua.LState, h twitter.Headers) lua.LValue {
	return toLua(L, h)
}

func headersFromLua(v lua.LValue) (twitter.Headers, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected table, got %s", v.Type())
	}

	h := make(twitter.Headers)
	tbl.ForEach(func(k, item lua.LValue) {
		h[k.String()] = item.String()
	})
	return h, nil
}

func metadataToLua(L *lua.LState, m *twitter.Metadata) lua.LValue {
	data, err := json.Marshal(m)
	if err != nil {
		return lua.LNil
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return lua.LNil
	}

	return toLua(L, doc)
}

func metadataFromLua(v lua.LValue) (*twitter.Metadata, error) {
	if v.Type() != lua.LTTable {
		return nil, fmt.Errorf("expected table, got %s", v.Type())
	}

	data, err := json.Marshal(fromLua(v))
	if err != nil {
		return nil, err
	}

	var m twitter.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

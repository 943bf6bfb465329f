package hook

import (
	"context"

	"github.com/spacedl/spacedl/network"
	lua "github.com/yuin/gopher-lua"
)

// registerTLSClient injects the "http_tls" module, backed by the
// impersonating client, into a hook state.
//
//	http_tls.get(url [, headers])            → body string
//	http_tls.request({method, url, headers, body}) → {status, body}
func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
	L.SetGlobal("http_tls", mod)
}

func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headers := tableToStrings(L.OptTable(2, nil))

	body, _, err := network.Do(context.Background(), "GET", url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(body))
	return 1
}

func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	method := stringField(opts, "method", "GET")
	url := stringField(opts, "url", "")
	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	var headers map[string]string
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		headers = tableToStrings(tbl)
	}

	body, status, err := network.Do(context.Background(), method, url, headers, stringField(opts, "body", ""))
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(status))
	L.SetField(result, "body", lua.LString(body))
	L.Push(result)
	return 1
}

func stringField(tbl *lua.LTable, key, def string) string {
	val := tbl.RawGetString(key)
	if val == lua.LNil {
		return def
	}
	return val.String()
}

func tableToStrings(tbl *lua.LTable) map[string]string {
	m := make(map[string]string)
	if tbl == nil {
		return m
	}
	tbl.ForEach(func(k, v lua.LValue) {
		m[k.String()] = v.String()
	})
	return m
}

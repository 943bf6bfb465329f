package hook

import (
	"sync"

	"github.com/spacedl/spacedl/filesystem"
	"github.com/spacedl/spacedl/util"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var protoCache sync.Map

// compileAndLoad runs the script at path inside L. Compiled prototypes are
// cached per path so every session reuses the same bytecode.
func compileAndLoad(L *lua.LState, path string) error {
	if cached, ok := protoCache.Load(path); ok {
		L.Push(L.NewFunctionFromProto(cached.(*lua.FunctionProto)))
		return L.PCall(0, lua.MultRet, nil)
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return err
	}
	defer util.Ignore(file.Close)

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return err
	}

	protoCache.Store(path, proto)

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

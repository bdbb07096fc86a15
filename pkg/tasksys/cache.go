package tasksys

import (
	"encoding/gob"
	"os"
	"time"

	"github.com/rotisserie/eris"
)

func init() {
	gob.Register(TaskList{})
	gob.Register(Task{})
	gob.Register(ScriptCommand{})
	gob.Register(TaskRefCommand{})
}

// ErrStaleCache indicates that the cached task list no longer matches the
// script it was parsed from.
var ErrStaleCache = eris.New("cached task list is stale")

type cachePayload struct {
	ScriptModTime time.Time
	Options       map[string]string
	Tasks         TaskList
}

// WriteCache stores the parsed task list together with the options it was
// parsed with and the script's modification time.
func WriteCache(file, script string, options map[string]string, list TaskList) error {
	info, err := os.Stat(script)
	if err != nil {
		return eris.Wrapf(err, "failed to check %s", script)
	}

	handle, err := os.Create(file)
	if err != nil {
		return err
	}
	defer handle.Close()

	encoder := gob.NewEncoder(handle)
	return encoder.Encode(cachePayload{
		ScriptModTime: info.ModTime(),
		Options:       options,
		Tasks:         list,
	})
}

// ReadCache loads a previously written task list cache. It returns
// ErrStaleCache if the script has been modified since the cache was written
// or if the passed options differ from the cached ones.
func ReadCache(file, script string, options map[string]string) (TaskList, error) {
	info, err := os.Stat(script)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to check %s", script)
	}

	handle, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	var payload cachePayload
	decoder := gob.NewDecoder(handle)
	err = decoder.Decode(&payload)
	if err != nil {
		return nil, eris.Wrap(err, "failed to decode cache")
	}

	if !payload.ScriptModTime.Equal(info.ModTime()) {
		return nil, ErrStaleCache
	}

	if len(payload.Options) != len(options) {
		return nil, ErrStaleCache
	}
	for name, value := range options {
		if payload.Options[name] != value {
			return nil, ErrStaleCache
		}
	}

	return payload.Tasks, nil
}

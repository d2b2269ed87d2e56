package logger

import (
	"slices"
	"sync"
)

// components holds loggers registered for named components such as
// "transcriber" or "cleanup". Packages resolve their logger with Get when no
// logger is injected.
var components sync.Map // name -> *Logger

// Register makes l the logger returned by Get(name).
func Register(name string, l *Logger) {
	components.Store(name, l)
}

// Get returns the logger registered for name. Unregistered names get the
// global logger tagged with component=name, so output stays attributable.
func Get(name string) *Logger {
	if l, ok := components.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}

// Registered lists the registered component names in sorted order.
func Registered() []string {
	var names []string
	components.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	slices.Sort(names)
	return names
}

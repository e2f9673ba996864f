package fakes

import (
	"fmt"
	"strings"
	"sync"
)

// Logger запоминает сообщения для проверок в тестах
type Logger struct {
	mu      sync.Mutex
	entries []string
}

func (l *Logger) Info(format string, v ...interface{})  { l.add("INFO", format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.add("WARN", format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.add("ERROR", format, v...) }

func (l *Logger) add(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+fmt.Sprintf(format, v...))
}

// Contains сообщает, было ли сообщение уровня level с подстрокой substr
func (l *Logger) Contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if strings.HasPrefix(e, level+" ") && strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

package clickhouse

import (
	"strings"
	"testing"
	"time"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
		want []string
		not  []string
	}{
		{
			name: "native",
			cfg:  ClientConfig{Host: "ch", Port: 9000, Database: "signals", DialTimeout: 5 * time.Second},
			want: []string{"clickhouse://ch:9000/signals", "dial_timeout=5s"},
			not:  []string{"@", "max_execution_time"},
		},
		{
			name: "http with escaped credentials",
			cfg:  ClientConfig{Host: "ch", Port: 8123, Database: "default", User: "reader", Password: "p@ss/word", UseHTTP: true, MaxExecTime: 30 * time.Second},
			want: []string{"http://reader:p%40ss%2Fword@ch:8123/default", "max_execution_time=30"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := BuildDSN(tt.cfg)
			for _, w := range tt.want {
				if !strings.Contains(dsn, w) {
					t.Errorf("dsn %q missing %q", dsn, w)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(dsn, n) {
					t.Errorf("dsn %q should not contain %q", dsn, n)
				}
			}
		})
	}
}

func TestNewClientRequiresHost(t *testing.T) {
	if _, err := NewClient(WithDatabase("x")); err == nil {
		t.Fatalf("expected error without host")
	}
}

package grpc

import "testing"

func TestClampPageSize(t *testing.T) {
	t.Parallel()

	cfg := PageSizeConfig{Default: 10, Max: 50}
	cases := []struct {
		name  string
		value int32
		want  int
	}{
		{"zero uses default", 0, 10},
		{"negative uses default", -3, 10},
		{"within range passes through", 25, 25},
		{"above max clamps", 500, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClampPageSize(tc.value, cfg); got != tc.want {
				t.Fatalf("ClampPageSize(%d) = %d, want %d", tc.value, got, tc.want)
			}
		})
	}
}

func TestClampPageSizeWithoutConfig(t *testing.T) {
	t.Parallel()

	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("ClampPageSize with empty config = %d, want 1", got)
	}
}

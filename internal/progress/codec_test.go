package progress

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    GameState
		wantErr bool
	}{
		{name: "empty object", raw: `{}`, want: GameState{}},
		{name: "all true", raw: `{"flowerMatch":true,"cupcakeCatch":true,"heartJump":true}`,
			want: GameState{FlowerMatch: true, CupcakeCatch: true, HeartJump: true}},
		{name: "kebab key is unknown", raw: `{"flower-match":true}`, want: GameState{}},
		{name: "truncated", raw: `{"flowerMatch":tr`, wantErr: true},
		{name: "number", raw: `3`, wantErr: true},
		{name: "numeric flag", raw: `{"heartJump":1}`, wantErr: true},
		{name: "null flag", raw: `{"heartJump":null}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	if got := Decode(""); got != (GameState{}) {
		t.Errorf("Decode(\"\") = %+v", got)
	}
}

func TestEncodeParsesBack(t *testing.T) {
	in := GameState{CupcakeCatch: true}
	got, err := Parse(Encode(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != in {
		t.Errorf("got %+v, want %+v", got, in)
	}
}

func TestRewards(t *testing.T) {
	tests := []struct {
		state   GameState
		count   int
		all     bool
		percent float64
	}{
		{GameState{}, 0, false, 0},
		{GameState{HeartJump: true}, 1, false, 1.0 / 3},
		{GameState{FlowerMatch: true, CupcakeCatch: true}, 2, false, 2.0 / 3},
		{GameState{FlowerMatch: true, CupcakeCatch: true, HeartJump: true}, 3, true, 1},
	}
	for _, tt := range tests {
		r := Rewards(tt.state)
		if r.Completed != tt.count || r.AllCompleted != tt.all || r.Percent() != tt.percent {
			t.Errorf("Rewards(%+v) = %+v (%.2f)", tt.state, r, r.Percent())
		}
		for _, id := range AllGames {
			if r.Unlocked[id] != tt.state.Completed(id) {
				t.Errorf("Unlocked[%s] = %v", id, r.Unlocked[id])
			}
		}
	}
}

func TestParseGameID(t *testing.T) {
	for _, in := range []string{"flowerMatch", "flower-match"} {
		id, err := ParseGameID(in)
		if err != nil || id != FlowerMatch {
			t.Errorf("ParseGameID(%q) = %q, %v", in, id, err)
		}
	}
	if _, err := ParseGameID("snake"); err == nil {
		t.Error("expected error for unknown game")
	}
}

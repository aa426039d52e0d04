package rooms

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		age  int
		want Room
	}{
		{-1, Nursery}, {0, Nursery}, {2, Nursery},
		{3, Preschool1},
		{4, Preschool2}, {5, Preschool2},
		{6, Preschool3}, {7, Preschool3},
		{8, Preschool4}, {10, Preschool4},
		{11, Juniors}, {17, Juniors},
	}
	for _, c := range cases {
		if got := Classify(c.age); got != c.want {
			t.Errorf("Classify(%d): want %q, got %q", c.age, c.want, got)
		}
	}
}

// Every integer lands in one of the six rooms, and asking twice gives the same answer.
func TestClassify_TotalAndStable(t *testing.T) {
	for age := -5; age <= 120; age++ {
		r := Classify(age)
		if !Valid(string(r)) {
			t.Fatalf("Classify(%d) = %q, not a known room", age, r)
		}
		if Classify(age) != r {
			t.Fatalf("Classify(%d) not deterministic", age)
		}
	}
}

func TestForAge(t *testing.T) {
	if r, ok := ForAge(" 4 "); !ok || r != Preschool2 {
		t.Errorf("ForAge(4): got %q, %v", r, ok)
	}
	for _, bad := range []string{"", "four", "4.5", "-2"} {
		if r, ok := ForAge(bad); ok || r != Unassigned {
			t.Errorf("ForAge(%q): want Unassigned/false, got %q/%v", bad, r, ok)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("Berçário"); got != string(Nursery) {
		t.Errorf("Berçário: got %q", got)
	}
	if got := Normalize("Infantil 3"); got != string(Preschool3) {
		t.Errorf("Infantil 3: got %q", got)
	}
	if got := Normalize("Juniors"); got != "Juniors" {
		t.Errorf("Juniors: got %q", got)
	}
}

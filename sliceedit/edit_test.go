package sliceedit

import (
	"reflect"
	"testing"
)

func TestFindAll(t *testing.T) {
	type args struct {
		buf  string
		item string
	}
	tests := []struct {
		name string
		args args
		want []int
	}{
		{"several", args{"a$b$$c", "$"}, []int{1, 3, 4}},
		{"non overlapping", args{"aaaa", "aa"}, []int{0, 2}},
		{"none", args{"abc", "x"}, []int{}},
		{"empty item", args{"abc", ""}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindAll([]byte(tt.args.buf), tt.args.item); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindWord(t *testing.T) {
	got := FindWord([]byte(`\sec \section \sec{}`), `\sec`)
	if want := []int{0, 14}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindWord() = %v, want %v", got, want)
	}

	got = FindWord([]byte(`\{a\{`), `\{`)
	if want := []int{0, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindWord() = %v, want %v", got, want)
	}
}

func TestBuffer(t *testing.T) {
	b := NewBufferString("one two three")
	b.Replace(4, 7, "2")
	b.Insert(0, ">")
	b.Delete(7, 8)

	if got, want := b.String(), ">one 2three"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if b.Edits() != 3 {
		t.Errorf("Edits() = %d, want 3", b.Edits())
	}
}

func TestReplaceAll(t *testing.T) {
	b := NewBufferString(`\it \item \it{x} x<y`)
	b.ReplaceAllWord(`\it`, `\textit`)
	b.ReplaceAllString("<", " < ")
	b.DeleteAllString("{x}")

	if got, want := b.String(), `\textit \item \textit x < y`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

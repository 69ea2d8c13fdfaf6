package project

import "slices"

// Action transforms a state into the next state. Actions are pure and must
// not modify their argument.
type Action func(State) State

// AddImage appends img, assigning it the next id. New images allow a page
// break after them.
func AddImage(img Image) Action {
	return func(s State) State {
		img.ID = s.Counter
		img.AllowWrap = true
		images := append(slices.Clone(s.Images), img)
		return State{Images: withLastWrap(images), Counter: s.Counter + 1}
	}
}

// RemoveImage drops the image with the given id. Unknown ids are ignored.
func RemoveImage(id int) Action {
	return func(s State) State {
		images := slices.DeleteFunc(slices.Clone(s.Images), func(img Image) bool {
			return img.ID == id
		})
		return State{Images: withLastWrap(images), Counter: s.Counter}
	}
}

// MoveImage shifts the image with the given id by positions; negative moves
// toward the front. The target position is clamped to the list bounds.
func MoveImage(id, by int) Action {
	return func(s State) State {
		i := s.Index(id)
		if i < 0 {
			return s
		}
		img := s.Images[i]
		images := slices.Delete(slices.Clone(s.Images), i, i+1)
		to := min(max(i+by, 0), len(images))
		images = slices.Insert(images, to, img)
		return State{Images: withLastWrap(images), Counter: s.Counter}
	}
}

// SetAllowWrap sets whether a page break may follow the image with the given
// id. The last image always allows a break regardless of allow.
func SetAllowWrap(id int, allow bool) Action {
	return func(s State) State {
		images := slices.Clone(s.Images)
		if i := s.Index(id); i >= 0 {
			images[i].AllowWrap = allow
		}
		return State{Images: withLastWrap(images), Counter: s.Counter}
	}
}

// ClearImages removes all images. The id counter keeps counting so ids are
// never reused within a project.
func ClearImages() Action {
	return func(s State) State {
		return State{Images: []Image{}, Counter: s.Counter}
	}
}

// Load replaces the state wholesale, e.g. with one read from a store.
func Load(next State) Action {
	return func(State) State {
		images := slices.Clone(next.Images)
		return State{Images: withLastWrap(images), Counter: next.Counter}
	}
}

// Noop returns the state unchanged. Applying it notifies observers, which
// recompute derived data after an option change.
func Noop() Action {
	return func(s State) State { return s }
}

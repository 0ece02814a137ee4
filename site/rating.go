package site

import (
	"errors"
	"fmt"
	"strconv"
)

const MaxRating = 5

var ErrRatingRange = errors.New("rating must be between 1 and 5")

// Rating is the star widget's value. Zero means unset.
type Rating int

// Set applies a click on the nth star (1-indexed).
func (r *Rating) Set(n int) error {
	if n < 1 || n > MaxRating {
		return fmt.Errorf("%w: got %d", ErrRatingRange, n)
	}
	*r = Rating(n)
	return nil
}

func (r Rating) IsSet() bool { return r >= 1 && r <= MaxRating }

// ActiveStars is the number of stars rendered with the active class.
func (r Rating) ActiveStars() int {
	if !r.IsSet() {
		return 0
	}
	return int(r)
}

// String returns the value of the hidden numeric field ("" when unset).
func (r Rating) String() string {
	if !r.IsSet() {
		return ""
	}
	return strconv.Itoa(int(r))
}

// Stars lists the values of the five star elements.
func Stars() []int {
	stars := make([]int, MaxRating)
	for i := range stars {
		stars[i] = i + 1
	}
	return stars
}

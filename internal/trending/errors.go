package trending

import "fmt"

func errInvalidScore(itemID string, score float64) error {
	return fmt.Errorf("item %s scored %v", itemID, score)
}

package value

import "fmt"

func indexError(kind string, i, n int) error {
	return fmt.Errorf("%s index %d out of range (len %d)", kind, i, n)
}

func sliceError(kind string, start, end, n int) error {
	return fmt.Errorf("%s slice [%d:%d] out of range (len %d)", kind, start, end, n)
}

package value

// NilType is the type of the single nil value.
type NilType struct{}

// Nil is AQL's nil value.
var Nil = NilType{}

var _ Value = Nil

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }
func (NilType) Truth() Bool    { return False }
func (NilType) Freeze()        {}

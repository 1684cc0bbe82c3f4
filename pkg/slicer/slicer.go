package slicer

// Slicer is implemented by all slicing strategies. SliceModel fills in
// the layers of the Result; it may be called again to re-slice as long
// as the result has not been post-processed.
type Slicer interface {
	SliceModel() error
	Result() *Result
}

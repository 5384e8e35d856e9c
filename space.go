package synptr

// Space binds addressing models to a SegmentStore at the type level. Spaces
// are zero sized types; a handle never stores its registry, it asks its
// space on every access.
//
//	var arena = synptr.MustNewRegistry(&synptr.Config{MaxSegmentSize: 16 * synptr.MB})
//
//	type arenaSpace struct{}
//
//	func (arenaSpace) Segments() synptr.SegmentStore { return arena }
type Space interface {
	Segments() SegmentStore
}

// Default is the registry behind DefaultSpace.
var Default = MustNewRegistry(nil)

// DefaultSpace resolves through Default.
type DefaultSpace struct{}

func (DefaultSpace) Segments() SegmentStore {
	return Default
}

func segmentsOf[S Space]() SegmentStore {
	var s S
	return s.Segments()
}

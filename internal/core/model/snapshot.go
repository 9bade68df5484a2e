package model

// Rect is the bounding box of a rendered element, in CSS pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ElementSnapshot describes one rendered DOM node at capture time.
// The selector is precomputed by the capture layer and treated as an
// opaque identity string here; the core never walks a DOM.
type ElementSnapshot struct {
	Selector string            `json:"selector"`
	Tag      string            `json:"tag"`
	Text     string            `json:"text"` // truncated by the capture layer
	Rect     Rect              `json:"rect"`
	Styles   map[string]string `json:"styles"`
	Section  string            `json:"section"`
	ImageSrc string            `json:"image_src,omitempty"`
}

// Style returns the tracked style value for a property, or "" when the
// capture did not record it.
func (e ElementSnapshot) Style(property string) string {
	if e.Styles == nil {
		return ""
	}
	return e.Styles[property]
}

// Raster is a full-page screenshot as raw RGBA bytes, row-major,
// 4 bytes per pixel.
type Raster struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels"`
}

// Valid reports whether the raster has positive dimensions and enough
// pixel data to cover them.
func (r Raster) Valid() bool {
	return r.Width > 0 && r.Height > 0 && len(r.Pixels) >= r.Width*r.Height*4
}

// Capture is everything the browser-automation collaborator hands over
// for one environment: the element list plus the page raster.
// Immutable once handed to the comparator.
type Capture struct {
	Elements []ElementSnapshot `json:"elements"`
	Raster   Raster            `json:"raster"`
}

// Package shadowgen renders layered drop shadows behind a rounded rectangle,
// crops the result to its visible pixels and reports nine-slice insets.
//
// The insets say how far the shadow reaches past each edge of the base
// shape, so the cropped image can be stretched around a widget of any size
// as a border image.
//
// # Quick start
//
//	s := shadowgen.NewSession()
//	s.SetSource(120, 40, 6)
//	s.SetLayers([]shadowgen.ShadowParams{{OffsetX: 0, OffsetY: 2, Opacity: 30, Blur: 4}})
//
//	res, err := shadowgen.NewPipeline().Render(s.Snapshot())
//	if err != nil {
//		return err
//	}
//	img := res.Cropped() // premultiplied *image.RGBA
//	fmt.Println(res.Insets)
//
// # Coordinates
//
// Sizes, offsets and blur strengths are logical units. [BaseShape.Scale]
// converts them to device pixels. Device space has the base shape's
// top-left corner at (0, 0); shadows and blur may extend into negative
// coordinates. A [Canvas] records the device coordinate of its first pixel
// in [Canvas.Origin].
//
// # Stages
//
// [Compositor.Render] paints each shadow layer in order (bottom-most
// first), blurs it with a [Blur] and paints the base shape last. [Crop]
// finds the bounding box of non-transparent pixels. [ComputeInsets] relates
// that box to the base shape. [Pipeline] runs all three on an immutable
// [Snapshot] and times each stage.
//
// Shadow opacity and blur radius pass through a [Calibration]. The default
// scales opacity and blur by 1.414 and doubles the blur radius.
//
// # Errors
//
// Failures wrap one of [ErrInvalidDimension], [ErrRender], [ErrEmptyResult]
// or [ErrInvariantViolation] in a [*StageError] naming the stage, so both
// [errors.Is] and [errors.As] work. Nothing in this package logs; set
// [Pipeline.Logf] to receive stage timings.
//
// Sibling packages build on the core: preset loads shadow stacks from
// YAML, export writes PNG and QML/JSON metadata, and preview is an
// interactive ebiten window.
package shadowgen

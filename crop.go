package shadowgen

import "image"

// Crop returns the smallest rectangle of img holding every pixel with
// non-zero alpha. It fails with ErrEmptyResult when there is none.
//
// Each edge moves inward independently while its scan line is fully
// transparent. Left and right go first so the top and bottom scans only
// cover the remaining columns; the result does not depend on the order.
func Crop(img *image.RGBA) (image.Rectangle, error) {
	if img == nil || img.Rect.Empty() {
		return image.Rectangle{}, stageErr(StageCrop, ErrEmptyResult)
	}
	b := img.Rect
	left, right := b.Min.X, b.Max.X
	top, bottom := b.Min.Y, b.Max.Y

	for left < right && columnClear(img, left, top, bottom) {
		left++
	}
	if left == right {
		return image.Rectangle{}, stageErr(StageCrop, ErrEmptyResult)
	}
	for right-1 > left && columnClear(img, right-1, top, bottom) {
		right--
	}
	for top < bottom && rowClear(img, top, left, right) {
		top++
	}
	for bottom-1 > top && rowClear(img, bottom-1, left, right) {
		bottom--
	}
	return image.Rect(left, top, right, bottom), nil
}

func columnClear(img *image.RGBA, x, y0, y1 int) bool {
	i := img.PixOffset(x, y0) + 3
	for y := y0; y < y1; y++ {
		if img.Pix[i] != 0 {
			return false
		}
		i += img.Stride
	}
	return true
}

func rowClear(img *image.RGBA, y, x0, x1 int) bool {
	i := img.PixOffset(x0, y) + 3
	for x := x0; x < x1; x++ {
		if img.Pix[i] != 0 {
			return false
		}
		i += 4
	}
	return true
}

// CropImage returns a copy of the crop rectangle of img with bounds
// starting at (0, 0).
func CropImage(img *image.RGBA, crop image.Rectangle) *image.RGBA {
	crop = crop.Intersect(img.Rect)
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	n := crop.Dx() * 4
	for y := 0; y < crop.Dy(); y++ {
		si := img.PixOffset(crop.Min.X, crop.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+n], img.Pix[si:si+n])
	}
	return out
}

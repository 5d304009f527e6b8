// Package submission reads and writes competition submission files and
// combines several prediction files into one.
//
// A submission file is a two column CSV:
//
//	ID,item_cnt_month
//	0,0.5
//	1,1.25
//
// where ID is the row position and item_cnt_month the predicted monthly
// count, clipped to [0, 20]. Every path handed to this package is resolved
// against the data folder the Writer was created with, unless it is absolute.
//
// Averaging loads the input files concurrently and adds their contributions
// in input order, so the output does not depend on which read finished first.
package submission

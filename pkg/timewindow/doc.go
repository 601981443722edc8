// Package timewindow parses and formats the compact retention-window strings
// used by chat commands.
//
// # Grammar
//
// A window string is a concatenation of optional segments in fixed order,
// with no whitespace:
//
//	(\d+d)?(\d+hr)?(\d+m)?(\d+s)?
//
// Examples: "30d" (thirty days), "1hr30m" (ninety minutes), "2d3hr",
// "45s". The empty string is grammatically valid and parses to a zero
// duration; rejecting zero is the caller's decision, since "not configured"
// and "configured to zero" mean different things at different call sites.
//
// # Usage
//
//	window, err := timewindow.Parse("30d")
//	if err != nil {
//		// errors.Is(err, timewindow.ErrInvalidWindow)
//	}
//
//	fmt.Println(timewindow.Format(90 * time.Minute)) // "1hr30m"
package timewindow

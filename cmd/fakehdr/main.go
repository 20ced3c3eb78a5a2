package main

/*------------------------------------------------------------------
 *
 * Purpose:	Print the header of a file written by fake.
 *
 *---------------------------------------------------------------*/

import (
	fake "github.com/doismellburning/pulsarfake/src"
)

func main() {
	fake.HeaderMain()
}

package main

/*------------------------------------------------------------------
 *
 * Purpose:	Generate filterbank data with a fake pulsar in it.
 *
 *---------------------------------------------------------------*/

import (
	fake "github.com/doismellburning/pulsarfake/src"
)

func main() {
	fake.FakeMain()
}

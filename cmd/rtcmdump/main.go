// rtcmdump reads a single RTCM3 message body from a file (or stdin) and
// writes a readable decoding of it to stdout. It takes one argument, the
// path to a JSON config file naming the input file and whether to display
// the decoded fields.
//
// rtcmdump only decodes one message body per invocation: framing,
// de-duplication of a stream into individual messages and CRC-24Q
// verification are the concern of whatever upstream tool wrote the file,
// not of this package.
package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/goblimey/go-tools/dailylogger"

	"github.com/gnssbridge/rtcm3/jsonconfig"
	"github.com/gnssbridge/rtcm3/rtcm3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s config.json", os.Args[0])
	}

	dailyLog := dailylogger.New(".", "rtcmdump.", ".log")
	logger := log.New(dailyLog, "", log.LstdFlags|log.Lshortfile)

	config, err := jsonconfig.GetJSONConfigFromFile(os.Args[1], logger)
	if err != nil {
		log.Fatalf("%s: cannot read config - %v", os.Args[0], err)
	}

	reader, err := openInput(config.InputFile)
	if err != nil {
		log.Fatalf("%s: cannot open %s - %v", os.Args[0], config.InputFile, err)
	}

	bitStream, err := ioutil.ReadAll(reader)
	if err != nil {
		logger.Fatalf("cannot read %s - %v", config.InputFile, err)
	}

	message, err := rtcm3.Decode(bitStream)
	if err != nil {
		logger.Printf("cannot decode %s - %v", config.InputFile, err)
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(message.String())
	if config.DisplayMessages {
		fmt.Printf("%+v\n", message.Readable)
	}
}

// openInput opens the named file, or stdin if the name is "-".
func openInput(fileName string) (io.Reader, error) {
	if fileName == "-" {
		return os.Stdin, nil
	}
	return os.Open(fileName)
}

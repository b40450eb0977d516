// Package jsonconfig provides support for reading a JSON configuration
// file for rtcmdump.
//
// An example config file:
//
//	{
//		"input": "capture.rtcm3",
//		"display_messages": true
//	}
package jsonconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
)

// Config contains the values from the JSON config file.
type Config struct {
	// InputFile is the name of the file to read RTCM3 message bodies
	// from, or "-" for stdin.
	InputFile string `json:"input"`

	// DisplayMessages says whether to write a readable display of the
	// decoded messages. Note: turning this on will produce a lot of output.
	DisplayMessages bool `json:"display_messages"`

	// systemLog is the Writer used for the daily activity log and can be
	// nil. It's not supplied in the JSON. The application should call
	// GetJSONConfigFromFile and, if there is a log writer, supply it as a
	// parameter.
	systemLog *log.Logger
}

// GetJSONConfigFromFile gets the config from the file given by configFileName.
func GetJSONConfigFromFile(configFileName string, systemLog *log.Logger) (*Config, error) {
	jsonReader, fileErr := os.Open(configFileName)
	if fileErr != nil {
		return nil, fileErr
	}

	config, jsonError := getJSONConfig(jsonReader, systemLog)
	if jsonError != nil {
		return nil, jsonError
	}

	return config, nil
}

// getJSONConfig reads from the given source and returns the config.
func getJSONConfig(jsonSource io.Reader, systemLog *log.Logger) (*Config, error) {
	jsonBytes, jsonReadError := ioutil.ReadAll(jsonSource)
	if jsonReadError != nil {
		errorMessage := fmt.Sprintf("cannot read the JSON control file - %v\n", jsonReadError)
		if systemLog != nil {
			systemLog.Println(errorMessage)
		} else {
			log.Println(errorMessage)
		}
		return nil, jsonReadError
	}

	var config Config
	jsonParseError := json.Unmarshal(jsonBytes, &config)
	if jsonParseError != nil {
		errorMessage := fmt.Sprintf("cannot parse the JSON control file - %v\n", jsonParseError)
		if systemLog != nil {
			systemLog.Println(errorMessage)
		} else {
			log.Println(errorMessage)
		}
		return nil, jsonParseError
	}

	config.systemLog = systemLog

	return &config, nil
}

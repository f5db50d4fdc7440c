package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/suhasHere/aacs"
)

const (
	configFile     = "aacs.yaml"
	defaultDevices = 8
)

type config struct {
	Devices int `yaml:"devices"`
}

func loadConfig() config {
	cfg := config{Devices: defaultDevices}

	data, err := ioutil.ReadFile(configFile)
	if os.IsNotExist(err) {
		return cfg
	}
	if err != nil {
		log.Fatalf("error reading %s: %v", configFile, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("error parsing %s: %v", configFile, err)
	}

	if cfg.Devices < 1 {
		cfg.Devices = defaultDevices
	}
	return cfg
}

func printMenu() {
	fmt.Println(strings.Repeat("=", 19))
	fmt.Println("Options:")
	fmt.Println("  1 - Encrypt file.")
	fmt.Println("  2 - Decrypt file.")
	fmt.Println("  3 - Export device keys.")
	fmt.Println("  q - Quit.")
	fmt.Println()
}

type prompter struct {
	in *bufio.Scanner
}

func (p *prompter) ask(prompt string) string {
	fmt.Print(prompt)
	if !p.in.Scan() {
		fmt.Println("Exiting...")
		os.Exit(0)
	}
	return strings.TrimSpace(p.in.Text())
}

// askDevice prompts until it gets a device id in [1, max], or an empty line
// if allowEmpty is set.
func (p *prompter) askDevice(prompt string, max int, allowEmpty bool) (int, bool) {
	for {
		line := p.ask(prompt)
		if line == "" && allowEmpty {
			return 0, false
		}

		id, err := strconv.Atoi(line)
		if err != nil {
			fmt.Println("Invalid value!")
			continue
		}
		if id < 1 || id > max {
			fmt.Println("Value out of range!")
			continue
		}
		return id, true
	}
}

func (p *prompter) askRevokedDevices(max int) []int {
	fmt.Println("Introduce devices to revoke them or leave empty to finish.")
	fmt.Printf("Range: [1, %d]\n", max)

	var revoked []int
	for {
		id, ok := p.askDevice("Device id: ", max, true)
		if !ok {
			return revoked
		}
		revoked = append(revoked, id)
	}
}

func main() {
	cfg := loadConfig()

	engine, err := aacs.NewAACS(cfg.Devices)
	if err != nil {
		log.Fatalf("error creating AACS system: %v", err)
	}

	p := &prompter{in: bufio.NewScanner(os.Stdin)}

	printMenu()
	for {
		switch p.ask("Introduce option: ") {
		case "1":
			encryptFile(engine, p, cfg.Devices)
		case "2":
			decryptFile(engine, p, cfg.Devices)
		case "3":
			exportKeys(engine, p, cfg.Devices)
		case "q", "Q":
			fmt.Println("Exiting...")
			return
		default:
			continue
		}

		fmt.Println()
		printMenu()
	}
}

func encryptFile(engine *aacs.AACS, p *prompter, devices int) {
	inName := p.ask("Introduce input file name: ")
	outName := p.ask("Introduce output file name: ")
	if inName == "" || outName == "" {
		return
	}

	for _, id := range p.askRevokedDevices(devices) {
		engine.Revoke(engine.LeafForDevice(id))
	}

	data, err := ioutil.ReadFile(inName)
	if err != nil {
		fmt.Println("Could not open file!")
		return
	}

	stream, err := engine.Encrypt(data)
	if err != nil {
		fmt.Printf("Encryption failed: %v\n", err)
		return
	}

	if err := ioutil.WriteFile(outName, stream, 0644); err != nil {
		fmt.Println("Could not open file!")
	}
}

func decryptFile(engine *aacs.AACS, p *prompter, devices int) {
	inName := p.ask("Introduce input file name: ")
	outName := p.ask("Introduce output file name: ")
	if inName == "" || outName == "" {
		return
	}

	data, err := ioutil.ReadFile(inName)
	if err != nil {
		fmt.Println("Could not open file!")
		return
	}

	fmt.Println("Which device will try to decrypt?")
	id, _ := p.askDevice(fmt.Sprintf("Device id [1, %d]: ", devices), devices, false)

	plaintext, err := engine.Decrypt(engine.LeafForDevice(id), data)
	if err != nil {
		fmt.Printf("Decryption failed: %v\n", err)
		return
	}

	if err := ioutil.WriteFile(outName, plaintext, 0644); err != nil {
		fmt.Println("Could not open file!")
	}
}

func exportKeys(engine *aacs.AACS, p *prompter, devices int) {
	fmt.Println("Which device should be provisioned?")
	id, _ := p.askDevice(fmt.Sprintf("Device id [1, %d]: ", devices), devices, false)

	outName := p.ask("Introduce output file name: ")
	passphrase := p.ask("Introduce passphrase: ")
	if outName == "" || passphrase == "" {
		return
	}

	bundle, err := engine.BundleFor(engine.LeafForDevice(id))
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}

	sealed, err := aacs.SealKeyBundle(bundle, []byte(passphrase))
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}

	if err := ioutil.WriteFile(outName, sealed, 0600); err != nil {
		fmt.Println("Could not open file!")
	}
}

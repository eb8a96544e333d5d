package geth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenesisOpt modifies the genesis bytes before they are returned, allowing
// arbitrary adjustments on top of the bundled definition.
type GenesisOpt func([]byte) ([]byte, error)

// WithChainID updates the chainId of the bundled genesis.
func WithChainID(chainID int) GenesisOpt {
	return func(genBz []byte) ([]byte, error) {
		return setGenesisField(genBz, "config.chainId", chainID)
	}
}

// WithAlloc adds a pre-funded account to the genesis alloc.
func WithAlloc(addrHex string, balance string) GenesisOpt {
	return func(genBz []byte) ([]byte, error) {
		return setGenesisField(genBz, "alloc."+strings.TrimPrefix(addrHex, "0x"),
			map[string]any{"balance": balance})
	}
}

// DefaultGenesisJSON returns the bundled genesis definition for the private
// network. The data directory is re-initialized from it on every supervisor
// construction so that stale chain state from another network is overwritten.
func DefaultGenesisJSON(opts ...GenesisOpt) ([]byte, error) {
	genesis := `{
  "config": {
    "chainId": 9,
    "homesteadBlock": 0,
    "eip150Block": 0,
    "eip155Block": 0,
    "eip158Block": 0
  },
  "nonce": "0x0000000000000000",
  "timestamp": "0x0",
  "extraData": "0x",
  "gasLimit": "0x47e7c4",
  "difficulty": "0x20000",
  "mixHash": "0x0000000000000000000000000000000000000000000000000000000000000000",
  "coinbase": "0x0000000000000000000000000000000000000000",
  "alloc": {},
  "number": "0x0",
  "gasUsed": "0x0",
  "parentHash": "0x0000000000000000000000000000000000000000000000000000000000000000"
}`

	genBz := []byte(genesis)
	for _, opt := range opts {
		var err error
		genBz, err = opt(genBz)
		if err != nil {
			return nil, fmt.Errorf("apply genesis option: %w", err)
		}
	}
	return genBz, nil
}

// setGenesisField sets a dot-separated path inside the genesis JSON document,
// creating intermediate objects as needed.
func setGenesisField(genBz []byte, path string, value any) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(genBz, &doc); err != nil {
		return nil, fmt.Errorf("decode genesis: %w", err)
	}

	keys := strings.Split(path, ".")
	cur := doc
	for _, k := range keys[:len(keys)-1] {
		next, ok := cur[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[k] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = value

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode genesis: %w", err)
	}
	return out, nil
}

// miningScriptJS is the automation script passed to the client's js
// subcommand when mining is enabled. It mines only while transactions are
// pending so an idle private chain does not grow empty blocks.
const miningScriptJS = `var miningThreads = 1;

function checkWork() {
    if (eth.getBlock("pending").transactions.length > 0) {
        if (eth.mining) return;
        console.log("pending transactions, mining...");
        miner.start(miningThreads);
    } else if (eth.mining) {
        miner.stop();
        console.log("no transactions, mining stopped");
    }
}

eth.filter("latest", function (err, block) { checkWork(); });
eth.filter("pending", function (err, tx) { checkWork(); });

checkWork();
`
